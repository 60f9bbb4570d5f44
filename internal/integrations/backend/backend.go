package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// Caller is the transport surface the services layer consumes. One call per
// service method; responses decode into the caller-supplied value.
type Caller interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Patch(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// ErrAuthExpired marks a 401 from the backend. Stored credentials have
// already been cleared by the time callers see it.
var ErrAuthExpired = errors.New("authentication expired")

// StatusError is any non-2xx response that is not an auth expiry.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend http %d", e.Code)
	}
	return fmt.Sprintf("backend http %d: %s", e.Code, e.Message)
}

// StatusCode extracts the HTTP status from err, 0 when err is not a
// transport status error.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func IsNotFound(err error) bool { return StatusCode(err) == 404 }
