package report

import (
	"strings"
	"time"
	"unicode/utf8"

	reporterrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/report/errors"
)

const (
	maxTitleLength   = 100
	maxContentLength = 600
)

// validateBody reports blank fields before over-long ones.
func validateBody(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return reporterrors.ErrTitleBlank
	}
	if strings.TrimSpace(content) == "" {
		return reporterrors.ErrContentBlank
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return reporterrors.ErrTitleTooLong
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return reporterrors.ErrContentTooLong
	}
	return nil
}

func parseRequiredDate(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, reporterrors.ErrDateBlank
	}
	d, err := ParseDate(strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, reporterrors.ErrInvalidDate
	}
	return d, nil
}
