package agent

import "errors"

var (
	ErrEmptyQuery      = errors.New("query is empty")
	ErrUnknownVideo    = errors.New("unknown video")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownSort     = errors.New("unknown sort order")
)
