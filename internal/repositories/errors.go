package repositories

import "errors"

// ErrProblemNotFound is returned by reads for an id the store does not hold.
// Callers that hit this for an id obtained from the index treat it as a
// store/index inconsistency and skip the entry rather than failing.
var ErrProblemNotFound = errors.New("problem not found")
