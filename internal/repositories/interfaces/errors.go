package interfaces

import "errors"

// ErrNotFound is returned by every repository when the addressed document
// does not exist. Callers distinguish absence from store failure with
// errors.Is.
var ErrNotFound = errors.New("document not found")
