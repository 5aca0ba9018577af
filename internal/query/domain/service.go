// Package domain defines the read-only reporting facade. Every result is
// evaluated against the ledger state at call time; callers get no snapshot
// guarantee across keys and must not treat reads as transactional with later
// writes.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
)

var ErrAssetNotFound = errors.New("asset does not exist")

// Result mirrors the {Key, Record} pairs the legacy contract returned from
// rich queries.
type Result struct {
	Key    string          `json:"Key"`
	Record json.RawMessage `json:"Record"`
}

// Snapshot is one historical version of a key, oldest first. A deletion shows
// up as a tombstone with a nil Record.
type Snapshot struct {
	Record    json.RawMessage `json:"record,omitempty"`
	IsDelete  bool            `json:"isDelete,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Service interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) (json.RawMessage, error)
	QueryAll(ctx context.Context) ([]Result, error)
	QueryBySelector(ctx context.Context, selector ledgerdomain.Selector) ([]Result, error)
	// SimsForCSP returns the keys of every sim that references the CSP as
	// home or roaming operator. Backs deleteCSP's referential check.
	SimsForCSP(ctx context.Context, cspName string) ([]string, error)
	History(ctx context.Context, key string) ([]Snapshot, error)
}
