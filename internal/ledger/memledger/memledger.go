// Package memledger is the in-process ledger backend. It keeps full per-key
// history (including delete tombstones) and iterates query results in
// lexicographic key order, so tests observe a stable ordering.
package memledger

import (
	"context"
	"sort"
	"sync"
	"time"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
)

type entry struct {
	value   []byte
	version uint64
}

// Ledger implements ledgerdomain.Ledger over maps guarded by one RWMutex.
// Individual calls are atomic; cross-call conflict detection is the concern
// of the real ledger runtime, not this stand-in.
type Ledger struct {
	mu      sync.RWMutex
	states  map[string]*entry
	history map[string][]ledgerdomain.Modification
	events  []ledgerdomain.Event

	now func() time.Time
}

func New() *Ledger {
	return &Ledger{
		states:  make(map[string]*entry),
		history: make(map[string][]ledgerdomain.Modification),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (l *Ledger) GetState(_ context.Context, key string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.states[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (l *Ledger) PutState(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.states[key]
	if !ok {
		e = &entry{}
		l.states[key] = e
	}
	e.value = stored
	e.version++
	l.history[key] = append(l.history[key], ledgerdomain.Modification{
		Value:     stored,
		Timestamp: l.now(),
	})
	return nil
}

func (l *Ledger) DeleteState(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.states[key]; !ok {
		return nil
	}
	delete(l.states, key)
	l.history[key] = append(l.history[key], ledgerdomain.Modification{
		Timestamp: l.now(),
		IsDelete:  true,
	})
	return nil
}

func (l *Ledger) GetQueryResult(_ context.Context, selector ledgerdomain.Selector) ([]ledgerdomain.KV, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.states))
	for k := range l.states {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []ledgerdomain.KV
	for _, k := range keys {
		v := l.states[k].value
		if !selector.MatchesRaw(v) {
			continue
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		out = append(out, ledgerdomain.KV{Key: k, Value: cp})
	}
	return out, nil
}

func (l *Ledger) GetHistoryForKey(_ context.Context, key string) ([]ledgerdomain.Modification, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	mods := l.history[key]
	out := make([]ledgerdomain.Modification, len(mods))
	copy(out, mods)
	return out, nil
}

func (l *Ledger) SetEvent(_ context.Context, name string, payload []byte) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ledgerdomain.Event{Name: name, Payload: cp})
	return nil
}

// Events returns every emitted event in commit order. Test hook.
func (l *Ledger) Events() []ledgerdomain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ledgerdomain.Event, len(l.events))
	copy(out, l.events)
	return out
}
