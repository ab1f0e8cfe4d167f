package apperror

import "errors"

// Kind is the outcome of a lifecycle operation. Every AppError code is a
// kind; CheckOK and Success have no error value behind them.
type Kind string

const (
	KindBlank              Kind = CodeBlank
	KindHalfSize           Kind = CodeHalfSize
	KindRangeCheck         Kind = CodeRangeCheck
	KindDuplicate          Kind = CodeDuplicate
	KindDuplicateException Kind = CodeDuplicateException
	KindDateCheck          Kind = CodeDateCheck
	KindLoginCheck         Kind = CodeLoginCheck
	KindNotFound           Kind = CodeNotFound
	KindInternal           Kind = CodeInternalError
	KindCheckOK            Kind = "CHECK_OK"
	KindSuccess            Kind = "SUCCESS"
)

// KindOf reports the kind carried by err. A nil error is Success and any
// error that is not an AppError is Internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindSuccess
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return Kind(appErr.Code)
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
