package core

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownChannel = errors.New("unknown channel")
	ErrInvalidTime    = errors.New("invalid time of day")
)
