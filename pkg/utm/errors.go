package utm

import "errors"

var (
	ErrEmptyTarget       = errors.New("utm: target url is empty")
	ErrInvalidTarget     = errors.New("utm: target url is invalid")
	ErrUnsupportedScheme = errors.New("utm: target url must use http or https")
	ErrMissingParameter  = errors.New("utm: required parameter is empty")
)

// FieldError ties a build failure to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, errs ...error) error {
	return &FieldError{Field: field, Err: errors.Join(errs...)}
}
