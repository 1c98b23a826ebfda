// Package identity carries the authenticated caller through a request context.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoCaller is returned when an operation that is scoped to a user runs
// without an authenticated caller in its context.
var ErrNoCaller = errors.New("caller identity not set")

type callerKey struct{}

// WithCaller returns a copy of ctx that carries userID as the caller.
func WithCaller(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

// CallerFromContext returns the caller stored in ctx, or ErrNoCaller.
func CallerFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(callerKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoCaller
	}
	return id, nil
}
