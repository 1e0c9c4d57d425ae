package errors

import "errors"

var (
	ErrNotFound = errors.New("car not found")
)
