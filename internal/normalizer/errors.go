package normalizer

import "errors"

var (
	// ErrMissingField is matched by every FieldError.
	ErrMissingField = errors.New("missing required field")
	// ErrMalformedPayload marks an issues body that is not valid JSON or has a
	// field of the wrong type.
	ErrMalformedPayload = errors.New("malformed issues payload")
	// ErrEmitFailed wraps errors returned by the emit capability.
	ErrEmitFailed = errors.New("emit failed")
)

// FieldError names the payload path that was absent on the taken branch.
type FieldError struct {
	Path string
}

func (e *FieldError) Error() string {
	return ErrMissingField.Error() + ": " + e.Path
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missing(path string) error {
	return &FieldError{Path: path}
}
