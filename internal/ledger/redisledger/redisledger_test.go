package redisledger_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	"github.com/roamclearlabs/roamclear/internal/ledger/redisledger"
)

func newTestLedger(t *testing.T) *redisledger.Ledger {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return redisledger.New(rdb, zap.NewNop(), "test")
}

func TestPutGetDelete(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()

	raw, err := led.GetState(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, led.PutState(ctx, "k1", []byte(`{"a":1}`)))
	raw, err = led.GetState(ctx, "k1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))

	require.NoError(t, led.DeleteState(ctx, "k1"))
	raw, err = led.GetState(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestHistoryWithTombstone(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, led.PutState(ctx, "k", []byte(`{"v":1}`)))
	require.NoError(t, led.PutState(ctx, "k", []byte(`{"v":2}`)))
	require.NoError(t, led.DeleteState(ctx, "k"))

	mods, err := led.GetHistoryForKey(ctx, "k")
	require.NoError(t, err)
	require.Len(t, mods, 3)
	assert.JSONEq(t, `{"v":1}`, string(mods[0].Value))
	assert.JSONEq(t, `{"v":2}`, string(mods[1].Value))
	assert.True(t, mods[2].IsDelete)
}

func TestQuerySelectorAndOrdering(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, led.PutState(ctx, "zeta", []byte(`{"type":"CSP","region":"Y"}`)))
	require.NoError(t, led.PutState(ctx, "alpha", []byte(`{"type":"CSP","region":"Y"}`)))
	require.NoError(t, led.PutState(ctx, "mid", []byte(`{"type":"CSP","region":"X"}`)))

	kvs, err := led.GetQueryResult(ctx, ledgerdomain.Selector{"type": "CSP", "region": "Y"})
	require.NoError(t, err)
	require.Len(t, kvs, 2)
	assert.Equal(t, "alpha", kvs[0].Key)
	assert.Equal(t, "zeta", kvs[1].Key)
}

func TestEventsRetainedInBacklog(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, led.SetEvent(ctx, "CallOutEvent-sim1", []byte(`{"startTime":"t"}`)))
	require.NoError(t, led.SetEvent(ctx, "CallEndEvent-sim1", []byte(`{"callDuration":125}`)))

	events, err := led.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "CallOutEvent-sim1", events[0].Name)
	assert.Equal(t, "CallEndEvent-sim1", events[1].Name)
}
