package domain

import "context"

// Repository reads and writes CSP documents in the world state. Get returns
// (nil, nil) when the key is absent; services map that to ErrCSPNotFound.
type Repository interface {
	Get(ctx context.Context, name string) (*CSP, error)
	Put(ctx context.Context, csp *CSP) error
	Delete(ctx context.Context, name string) error
}
