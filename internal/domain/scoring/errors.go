package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrScoreFailed = errors.New("score failed")
)
