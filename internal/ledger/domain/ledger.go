// Package domain defines the world-state contract the settlement engine is
// written against. The real ledger runtime (storage, consensus, ordering) sits
// behind this interface; the backends under internal/ledger implement it for
// in-memory, redis and sql deployments.
package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// KV is one query result: a ledger key and its current value.
type KV struct {
	Key   string
	Value []byte
}

// Modification is one entry in a key's history, oldest first. A deletion is
// recorded as a tombstone with IsDelete set and a nil Value.
type Modification struct {
	Value     []byte
	Timestamp time.Time
	IsDelete  bool
}

// Event is a committed notification. Delivery to external subscribers is
// at-least-once; the engine only emits, it never waits on one.
type Event struct {
	Name    string
	Payload []byte
}

// Ledger is the key/value surface consumed by every operation. GetState
// returns (nil, nil) for an absent key. Writes for a single operation must be
// issued only after all of its reads so that store-level conflict detection
// over read sets stays sound.
type Ledger interface {
	GetState(ctx context.Context, key string) ([]byte, error)
	PutState(ctx context.Context, key string, value []byte) error
	DeleteState(ctx context.Context, key string) error
	GetQueryResult(ctx context.Context, selector Selector) ([]KV, error)
	GetHistoryForKey(ctx context.Context, key string) ([]Modification, error)
	SetEvent(ctx context.Context, name string, payload []byte) error
}

// EmitJSON emits the operation event for a key: name `<op>Event-<key>`,
// payload marshalled as JSON.
func EmitJSON(ctx context.Context, l Ledger, op, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event payload: %w", op, err)
	}
	return l.SetEvent(ctx, fmt.Sprintf("%sEvent-%s", op, key), raw)
}
