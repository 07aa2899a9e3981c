// Package errmsg holds the HTTP-facing error values returned by handlers.
package errmsg

// StatusError pairs a response status code with the message written as
// {"message": ...}.
type StatusError struct {
	StatusCode int
	Message    string
}

func NewStatusError(statusCode int, message string) StatusError {
	return StatusError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func (se StatusError) Error() string {
	return se.Message
}
