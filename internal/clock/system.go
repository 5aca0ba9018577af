package clock

import (
	"context"
	"time"
)

type SystemClock struct{}

func (SystemClock) Now(ctx context.Context) time.Time {
	if t, ok := FromContext(ctx); ok {
		return t
	}
	return time.Now().UTC()
}
