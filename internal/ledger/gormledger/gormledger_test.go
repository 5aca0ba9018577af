package gormledger_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	"github.com/roamclearlabs/roamclear/internal/ledger/gormledger"
)

func newTestLedger(t *testing.T) *gormledger.Ledger {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	led, err := gormledger.New(db, zap.NewNop(), node)
	require.NoError(t, err)
	return led
}

func TestPutGetDeleteRoundTrip(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()

	raw, err := led.GetState(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, led.PutState(ctx, "k1", []byte(`{"a":1}`)))
	require.NoError(t, led.PutState(ctx, "k1", []byte(`{"a":2}`)))

	raw, err = led.GetState(ctx, "k1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(raw))

	require.NoError(t, led.DeleteState(ctx, "k1"))
	raw, err = led.GetState(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestHistoryIncludesTombstones(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, led.PutState(ctx, "k", []byte(`{"v":1}`)))
	require.NoError(t, led.DeleteState(ctx, "k"))
	require.NoError(t, led.PutState(ctx, "k", []byte(`{"v":2}`)))

	mods, err := led.GetHistoryForKey(ctx, "k")
	require.NoError(t, err)
	require.Len(t, mods, 3)
	assert.JSONEq(t, `{"v":1}`, string(mods[0].Value))
	assert.True(t, mods[1].IsDelete)
	assert.JSONEq(t, `{"v":2}`, string(mods[2].Value))
}

func TestQueryOrderedByKey(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, led.PutState(ctx, "b", []byte(`{"type":"CSP"}`)))
	require.NoError(t, led.PutState(ctx, "a", []byte(`{"type":"CSP"}`)))
	require.NoError(t, led.PutState(ctx, "c", []byte(`{"type":"SubscriberSim"}`)))

	kvs, err := led.GetQueryResult(ctx, ledgerdomain.Selector{"type": "CSP"})
	require.NoError(t, err)
	require.Len(t, kvs, 2)
	assert.Equal(t, "a", kvs[0].Key)
	assert.Equal(t, "b", kvs[1].Key)
}
