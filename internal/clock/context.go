package clock

import (
	"context"
	"time"
)

type ctxKey struct{}

// WithTime pins the clock for everything downstream of ctx. Used by tests to
// make call timestamps and charges deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

func FromContext(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(ctxKey{}).(time.Time)
	return t, ok
}
