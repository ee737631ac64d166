package malloc

import "errors"

var (
	ErrClosed     = errors.New("closed")
	ErrNoSpace    = errors.New("no space")
	ErrOutOfRange = errors.New("out of range")
)
