package employeeerrors

import (
	"net/http"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.NewField(
		apperror.CodeNotFound,
		"code",
		"Employee not found",
		http.StatusNotFound,
	)
	ErrCodeBlank = apperror.NewField(
		apperror.CodeBlank,
		"code",
		"Employee code is required",
		http.StatusBadRequest,
	)
	ErrCodeDuplicate = apperror.NewField(
		apperror.CodeDuplicate,
		"code",
		"Employee code is already in use",
		http.StatusConflict,
	)
	ErrCodeConflict = apperror.NewField(
		apperror.CodeDuplicateException,
		"code",
		"Employee code was registered concurrently",
		http.StatusConflict,
	)
	ErrNameBlank = apperror.NewField(
		apperror.CodeBlank,
		"name",
		"Name is required",
		http.StatusBadRequest,
	)
	ErrNameTooLong = apperror.NewField(
		apperror.CodeRangeCheck,
		"name",
		"Name must be 20 characters or fewer",
		http.StatusBadRequest,
	)
	ErrPasswordBlank = apperror.NewField(
		apperror.CodeBlank,
		"password",
		"Password is required",
		http.StatusBadRequest,
	)
	ErrPasswordHalfSize = apperror.NewField(
		apperror.CodeHalfSize,
		"password",
		"Password must contain only half-width letters and digits",
		http.StatusBadRequest,
	)
	ErrPasswordRange = apperror.NewField(
		apperror.CodeRangeCheck,
		"password",
		"Password must be 8 to 16 characters",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.NewField(
		apperror.CodeInvalidInput,
		"role",
		"Role must be ADMIN or GENERAL",
		http.StatusBadRequest,
	)
	ErrSelfDelete = apperror.NewField(
		apperror.CodeLoginCheck,
		"code",
		"You cannot delete your own account",
		http.StatusForbidden,
	)
)
