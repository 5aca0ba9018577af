// Package redisledger backs the ledger contract with redis: current state in
// plain keys, per-key history in RPUSH lists, events published on a pub/sub
// channel (at-least-once for connected subscribers, mirrored into a capped
// list so late consumers can catch up).
package redisledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
)

const eventBacklog = 1024

type Ledger struct {
	rdb       *redis.Client
	log       *zap.Logger
	namespace string
	now       func() time.Time
}

func New(rdb *redis.Client, log *zap.Logger, namespace string) *Ledger {
	if namespace == "" {
		namespace = "roamclear"
	}
	return &Ledger{
		rdb:       rdb,
		log:       log.Named("ledger.redis"),
		namespace: namespace,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (l *Ledger) stateKey(key string) string   { return l.namespace + ":state:" + key }
func (l *Ledger) historyKey(key string) string { return l.namespace + ":hist:" + key }
func (l *Ledger) eventsKey() string            { return l.namespace + ":events" }

// EventChannel is the pub/sub channel operation events are published on.
func (l *Ledger) EventChannel() string { return l.namespace + ":events:live" }

type historyRow struct {
	Value     []byte    `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	IsDelete  bool      `json:"isDelete,omitempty"`
}

type eventRow struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

func (l *Ledger) GetState(ctx context.Context, key string) ([]byte, error) {
	val, err := l.rdb.Get(ctx, l.stateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (l *Ledger) PutState(ctx context.Context, key string, value []byte) error {
	row, err := json.Marshal(historyRow{Value: value, Timestamp: l.now()})
	if err != nil {
		return err
	}
	pipe := l.rdb.TxPipeline()
	pipe.Set(ctx, l.stateKey(key), value, 0)
	pipe.RPush(ctx, l.historyKey(key), row)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}

func (l *Ledger) DeleteState(ctx context.Context, key string) error {
	n, err := l.rdb.Del(ctx, l.stateKey(key)).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	if n == 0 {
		return nil
	}
	row, err := json.Marshal(historyRow{Timestamp: l.now(), IsDelete: true})
	if err != nil {
		return err
	}
	if err := l.rdb.RPush(ctx, l.historyKey(key), row).Err(); err != nil {
		return fmt.Errorf("redis history %s: %w", key, err)
	}
	return nil
}

func (l *Ledger) GetQueryResult(ctx context.Context, selector ledgerdomain.Selector) ([]ledgerdomain.KV, error) {
	prefix := l.stateKey("")
	keys, err := l.rdb.Keys(ctx, prefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("redis keys: %w", err)
	}
	sort.Strings(keys)

	var out []ledgerdomain.KV
	for _, full := range keys {
		val, err := l.rdb.Get(ctx, full).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get %s: %w", full, err)
		}
		if !selector.MatchesRaw(val) {
			continue
		}
		out = append(out, ledgerdomain.KV{
			Key:   strings.TrimPrefix(full, prefix),
			Value: val,
		})
	}
	return out, nil
}

func (l *Ledger) GetHistoryForKey(ctx context.Context, key string) ([]ledgerdomain.Modification, error) {
	rows, err := l.rdb.LRange(ctx, l.historyKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis history %s: %w", key, err)
	}
	out := make([]ledgerdomain.Modification, 0, len(rows))
	for _, raw := range rows {
		var row historyRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("decode history row for %s: %w", key, err)
		}
		out = append(out, ledgerdomain.Modification{
			Value:     row.Value,
			Timestamp: row.Timestamp,
			IsDelete:  row.IsDelete,
		})
	}
	return out, nil
}

func (l *Ledger) SetEvent(ctx context.Context, name string, payload []byte) error {
	row, err := json.Marshal(eventRow{Name: name, Payload: payload})
	if err != nil {
		return err
	}
	pipe := l.rdb.TxPipeline()
	pipe.RPush(ctx, l.eventsKey(), row)
	pipe.LTrim(ctx, l.eventsKey(), -eventBacklog, -1)
	pipe.Publish(ctx, l.EventChannel(), row)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis emit %s: %w", name, err)
	}
	l.log.Debug("event emitted", zap.String("event", name))
	return nil
}

// Events drains the retained event backlog, oldest first. Test hook.
func (l *Ledger) Events(ctx context.Context) ([]ledgerdomain.Event, error) {
	rows, err := l.rdb.LRange(ctx, l.eventsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]ledgerdomain.Event, 0, len(rows))
	for _, raw := range rows {
		var row eventRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, err
		}
		out = append(out, ledgerdomain.Event{Name: row.Name, Payload: row.Payload})
	}
	return out, nil
}
