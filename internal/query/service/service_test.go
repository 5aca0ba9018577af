package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	"github.com/roamclearlabs/roamclear/internal/ledger/memledger"
	querydomain "github.com/roamclearlabs/roamclear/internal/query/domain"
	queryservice "github.com/roamclearlabs/roamclear/internal/query/service"
)

func newFixture(t *testing.T) (*memledger.Ledger, querydomain.Service) {
	t.Helper()
	led := memledger.New()
	svc := queryservice.NewService(queryservice.ServiceParam{Ledger: led, Log: zap.NewNop()})

	ctx := context.Background()
	require.NoError(t, led.PutState(ctx, "AT&T",
		[]byte(`{"name":"AT&T","region":"New York","type":"CSP"}`)))
	require.NoError(t, led.PutState(ctx, "sim1",
		[]byte(`{"publicKey":"sim1","homeOperatorName":"AT&T","roamingPartnerName":"","type":"SubscriberSim"}`)))
	require.NoError(t, led.PutState(ctx, "sim2",
		[]byte(`{"publicKey":"sim2","homeOperatorName":"T-Mobile","roamingPartnerName":"AT&T","type":"SubscriberSim"}`)))
	return led, svc
}

func TestExists(t *testing.T) {
	_, svc := newFixture(t)
	ctx := context.Background()

	ok, err := svc.Exists(ctx, "sim1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadAbsentKey(t *testing.T) {
	_, svc := newFixture(t)

	_, err := svc.Read(context.Background(), "ghost")
	assert.ErrorIs(t, err, querydomain.ErrAssetNotFound)
}

func TestQueryAllReturnsKeyedRecords(t *testing.T) {
	_, svc := newFixture(t)

	results, err := svc.QueryAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "AT&T", results[0].Key)
	assert.Equal(t, "sim1", results[1].Key)
	assert.Equal(t, "sim2", results[2].Key)
	assert.JSONEq(t, `{"name":"AT&T","region":"New York","type":"CSP"}`, string(results[0].Record))
}

func TestQueryBySelector(t *testing.T) {
	_, svc := newFixture(t)

	results, err := svc.QueryBySelector(context.Background(),
		ledgerdomain.Selector{"type": "SubscriberSim"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "sim1", results[0].Key)
	assert.Equal(t, "sim2", results[1].Key)
}

func TestSimsForCSPMatchesHomeAndRoaming(t *testing.T) {
	_, svc := newFixture(t)

	sims, err := svc.SimsForCSP(context.Background(), "AT&T")
	require.NoError(t, err)
	assert.Equal(t, []string{"sim1", "sim2"}, sims)

	sims, err = svc.SimsForCSP(context.Background(), "Verizon")
	require.NoError(t, err)
	assert.Empty(t, sims)
}

func TestHistoryOldestFirst(t *testing.T) {
	led, svc := newFixture(t)
	ctx := context.Background()

	require.NoError(t, led.PutState(ctx, "sim1",
		[]byte(`{"publicKey":"sim1","location":"Boston","type":"SubscriberSim"}`)))
	require.NoError(t, led.DeleteState(ctx, "sim1"))

	history, err := svc.History(ctx, "sim1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.False(t, history[0].IsDelete)
	assert.False(t, history[1].IsDelete)
	assert.True(t, history[2].IsDelete)
	assert.Contains(t, string(history[1].Record), "Boston")
}
