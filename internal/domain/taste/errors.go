package taste

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrProfileNotFound  = errors.New("taste profile not found")
	ErrProfileMalformed = errors.New("taste profile malformed")
	ErrDNAUnavailable   = errors.New("taste dna unavailable")
)
