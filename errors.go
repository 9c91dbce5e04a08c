package folio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/eringen/folio/auth"
)

var (
	// ErrNotFound is returned when a post does not exist, or is a draft on a public route.
	ErrNotFound = errors.New("post not found")
	// ErrSlugInUse is returned when another post already owns the slug.
	ErrSlugInUse = errors.New("slug in use")
)

// ValidationError reports a request the client must fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError wraps a failure of the database or blob service.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func storageError(err error) error {
	return &UpstreamError{Service: "storage", Err: err}
}

// errorStatus maps an error to its HTTP status and the message safe to show the client.
func errorStatus(err error) (int, string) {
	var verr *ValidationError
	var uerr *UpstreamError
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrNotFound.Error()
	case errors.Is(err, ErrSlugInUse):
		return http.StatusConflict, ErrSlugInUse.Error()
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.As(err, &uerr):
		return http.StatusServiceUnavailable, uerr.Service + " unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
