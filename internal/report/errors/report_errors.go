package reporterrors

import (
	"net/http"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"
)

var (
	ErrReportNotFound = apperror.NewField(
		apperror.CodeNotFound,
		"id",
		"Report not found",
		http.StatusNotFound,
	)
	ErrAuthorNotFound = apperror.NewField(
		apperror.CodeNotFound,
		"employee_code",
		"Employee not found",
		http.StatusNotFound,
	)
	ErrTitleBlank = apperror.NewField(
		apperror.CodeBlank,
		"title",
		"Title is required",
		http.StatusBadRequest,
	)
	ErrTitleTooLong = apperror.NewField(
		apperror.CodeRangeCheck,
		"title",
		"Title must be 100 characters or fewer",
		http.StatusBadRequest,
	)
	ErrContentBlank = apperror.NewField(
		apperror.CodeBlank,
		"content",
		"Content is required",
		http.StatusBadRequest,
	)
	ErrContentTooLong = apperror.NewField(
		apperror.CodeRangeCheck,
		"content",
		"Content must be 600 characters or fewer",
		http.StatusBadRequest,
	)
	ErrDateBlank = apperror.NewField(
		apperror.CodeBlank,
		"report_date",
		"Report date is required",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.NewField(
		apperror.CodeInvalidInput,
		"report_date",
		"Report date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidReportID = apperror.NewField(
		apperror.CodeInvalidInput,
		"id",
		"Invalid report ID",
		http.StatusBadRequest,
	)
	ErrDateDuplicate = apperror.NewField(
		apperror.CodeDateCheck,
		"report_date",
		"A report already exists for this date",
		http.StatusConflict,
	)
	ErrDateImmutable = apperror.NewField(
		apperror.CodeDateCheck,
		"report_date",
		"The report date cannot be changed",
		http.StatusConflict,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"You can only manage your own reports",
		http.StatusForbidden,
	)
)
