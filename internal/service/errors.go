package service

import "errors"

var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the request was well-formed JSON but semantically
	// unusable.
	ErrValidation = errors.New("validation failed")
)
