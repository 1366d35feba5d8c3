package eventfile

import "errors"

// Sentinel kinds for event file errors.
var (
	ErrReadEvents = errors.New("read events")
	ErrNotArray   = errors.New("event file is not a JSON array")
)
