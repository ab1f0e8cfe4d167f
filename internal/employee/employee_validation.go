package employee

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/domain"
	employeeerrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/employee/errors"
)

const (
	maxNameLength     = 20
	minPasswordLength = 8
	maxPasswordLength = 16
)

var halfSizeAlnum = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return employeeerrors.ErrNameBlank
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return employeeerrors.ErrNameTooLong
	}
	return nil
}

func validateRole(role string) error {
	if !domain.IsValidRole(role) {
		return employeeerrors.ErrInvalidRole
	}
	return nil
}

// validateNewPassword checks the character set before the length.
func validateNewPassword(password string) error {
	if password == "" {
		return employeeerrors.ErrPasswordBlank
	}
	if !halfSizeAlnum.MatchString(password) {
		return employeeerrors.ErrPasswordHalfSize
	}
	if outOfRange(password) {
		return employeeerrors.ErrPasswordRange
	}
	return nil
}

// validateChangedPassword checks the length before the character set.
// Callers skip it when the password is left empty.
func validateChangedPassword(password string) error {
	if outOfRange(password) {
		return employeeerrors.ErrPasswordRange
	}
	if !halfSizeAlnum.MatchString(password) {
		return employeeerrors.ErrPasswordHalfSize
	}
	return nil
}

func outOfRange(password string) bool {
	n := utf8.RuneCountInString(password)
	return n < minPasswordLength || n > maxPasswordLength
}
