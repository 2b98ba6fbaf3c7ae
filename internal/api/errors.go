package api

import (
	"errors"
	"fmt"
)

// ErrNoCredential is returned before any network I/O when an authenticated
// call is attempted without a signed-in identity.
var ErrNoCredential = errors.New("no credential")

// NotFoundError marks a lookup for a key the server does not know. It is a
// neutral outcome, distinct from a transport failure. The value is the
// server's message, or "not found" when the body carried none.
type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

// APIError carries a rejection the server expressed deliberately (4xx/5xx
// with a message body). Message is the server's reason verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return e.Message
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNoCredential) {
		return true
	}
	var ae *APIError
	return errors.As(err, &ae) && (ae.Status == 401 || ae.Status == 403)
}
