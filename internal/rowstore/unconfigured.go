package rowstore

import (
	"context"
	"strings"

	"storytrain_landing/platform/apperr"
)

// Unconfigured stands in when the endpoint or key is missing. It is always
// constructible, and every call fails with ErrNotConfigured so callers take
// their normal error path.
type Unconfigured struct {
	missing []string
}

// NewUnconfigured returns a store whose writes always fail. missing names the
// absent settings for diagnostics.
func NewUnconfigured(missing ...string) *Unconfigured {
	return &Unconfigured{missing: missing}
}

// Insert always fails with ErrNotConfigured.
func (u *Unconfigured) Insert(_ context.Context, _ string, _ Row) error {
	return u.err()
}

// Ping always fails with ErrNotConfigured.
func (u *Unconfigured) Ping(_ context.Context) error {
	return u.err()
}

// Close is a no-op.
func (u *Unconfigured) Close() error {
	return nil
}

// Missing lists the absent settings.
func (u *Unconfigured) Missing() []string {
	return u.missing
}

func (u *Unconfigured) err() error {
	e := apperr.Wrap(apperr.KindUnavailable, ErrNotConfigured.Error(), ErrNotConfigured).WithOp(opInsert)
	if len(u.missing) > 0 {
		e = e.WithDetails(map[string]string{"missing": strings.Join(u.missing, ",")})
	}
	return e
}
