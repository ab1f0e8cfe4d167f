package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns gin binding failures into AppErrors. The json
// field name is kept in Field; the message uses a readable form of it.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		fieldName := e.Field()
		humanReadableField := formatFieldName(fieldName)

		switch e.Tag() {
		case "required":
			appErr := RequiredField(humanReadableField)
			appErr.Field = fieldName
			return appErr
		case "max":
			return NewField(CodeRangeCheck, fieldName, humanReadableField+" is too long", http.StatusBadRequest)
		default:
			appErr := InvalidField(humanReadableField)
			appErr.Field = fieldName
			return appErr
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
