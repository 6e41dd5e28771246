package data

import "errors"

var (
	ErrNotFound = errors.New("not found")
)
