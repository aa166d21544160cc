package model

import "errors"

var (
	ErrUnknownUser     = errors.New("user is not registered")
	ErrMalformedAction = errors.New("malformed action token")
)
