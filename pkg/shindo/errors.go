package shindo

import (
	"errors"

	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidParams is returned when search input fails validation before
	// any request is sent.
	ErrInvalidParams = eris.New("shindo: invalid search parameters")

	// ErrNotFound is returned by resolver lookups of unknown codes or names.
	ErrNotFound = eris.New("shindo: not found")
)

// BadRequestError is the message the API returns in place of results when it
// rejects a query, e.g. when the search window is malformed.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return "shindo: bad request: " + e.Message
}

// IsBadRequest reports whether err carries a *BadRequestError.
func IsBadRequest(err error) bool {
	var bre *BadRequestError
	return errors.As(err, &bre)
}
