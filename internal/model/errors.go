package model

import "errors"

// ErrAuthRequired is returned when an action needs a signed-in user.
var ErrAuthRequired = errors.New("authentication required")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}
