package domain

import "context"

// Repository reads and writes SubscriberSim documents in the world state.
// Get returns (nil, nil) when the key is absent; services map that to
// ErrSimNotFound.
type Repository interface {
	Get(ctx context.Context, publicKey string) (*SubscriberSim, error)
	Put(ctx context.Context, sim *SubscriberSim) error
	Delete(ctx context.Context, publicKey string) error
}
