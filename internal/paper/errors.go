package paper

import "errors"

// ErrInvariantViolation is wrapped by every error caused by structural
// misuse of a Paper: removing the base layer, resizing to a non-positive
// size, a non-positive zoom, or a malformed cursor hotspot. These are
// programming errors and are never retried.
var ErrInvariantViolation = errors.New("paper: invariant violation")
