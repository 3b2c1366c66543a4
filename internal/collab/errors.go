package collab

import "errors"

var (
	// ErrUnavailable indicates the remote service could not be reached.
	ErrUnavailable = errors.New("collaborator unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("collaborator request timed out")

	// ErrBadResponse indicates the remote answered with an error status or a
	// body that could not be decoded.
	ErrBadResponse = errors.New("collaborator returned a bad response")
)
