package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cspservice "github.com/roamclearlabs/roamclear/internal/csp/service"
	"github.com/roamclearlabs/roamclear/internal/ledger/memledger"
	queryservice "github.com/roamclearlabs/roamclear/internal/query/service"
	roamingdomain "github.com/roamclearlabs/roamclear/internal/roaming/domain"
	roamingservice "github.com/roamclearlabs/roamclear/internal/roaming/service"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
	simrepository "github.com/roamclearlabs/roamclear/internal/sim/repository"
	simservice "github.com/roamclearlabs/roamclear/internal/sim/service"
)

type fixture struct {
	led  *memledger.Ledger
	sims simdomain.Service
	svc  roamingdomain.Service
	repo simdomain.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	led := memledger.New()
	log := zap.NewNop()
	qsvc := queryservice.NewService(queryservice.ServiceParam{Ledger: led, Log: log})
	csvc := cspservice.NewService(cspservice.ServiceParam{Ledger: led, Query: qsvc, Log: log})
	ssvc := simservice.NewService(simservice.ServiceParam{Ledger: led, Log: log})
	rsvc := roamingservice.NewService(roamingservice.ServiceParam{Ledger: led, Log: log})

	ctx := context.Background()
	for _, csp := range []struct{ name, region, overage, roaming string }{
		{"AT&T", "New York", "0.50", "0.75"},
		{"T-Mobile", "Washington DC", "0.75", "0.25"},
		{"Verizon", "Washington DC", "0.25", "1.00"},
	} {
		_, err := csvc.Create(ctx, csp.name, csp.region, csp.overage, csp.roaming)
		require.NoError(t, err)
	}
	return &fixture{led: led, sims: ssvc, svc: rsvc, repo: simrepository.NewRepository(led)}
}

func (f *fixture) createSim(t *testing.T, publicKey, msisdn string) {
	t.Helper()
	_, err := f.sims.Create(context.Background(), simdomain.CreateInput{
		PublicKey:        publicKey,
		MSISDN:           msisdn,
		HomeOperatorName: "AT&T",
		Location:         "New York",
		OverageThreshold: "5.00",
	})
	require.NoError(t, err)
}

func TestMoveOverwritesLocationOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	sim, err := f.svc.Move(ctx, "sim1", "Washington DC")
	require.NoError(t, err)
	assert.Equal(t, "Washington DC", sim.Location)
	assert.False(t, sim.IsRoaming)
	assert.Empty(t, sim.RoamingPartnerName)
}

func TestMoveAbsentSim(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Move(context.Background(), "ghost", "Washington DC")
	assert.ErrorIs(t, err, simdomain.ErrSimNotFound)
}

func TestDiscoverHomeRegion(t *testing.T) {
	f := newFixture(t)
	f.createSim(t, "sim1", "4691234567")

	operator, err := f.svc.Discover(context.Background(), "sim1")
	require.NoError(t, err)
	assert.Equal(t, "AT&T", operator)
}

func TestDiscoverPicksFirstOperatorByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	// Washington DC is served by both T-Mobile and Verizon.
	_, err := f.svc.Move(ctx, "sim1", "Washington DC")
	require.NoError(t, err)

	operator, err := f.svc.Discover(ctx, "sim1")
	require.NoError(t, err)
	assert.Equal(t, "T-Mobile", operator)
}

func TestDiscoverNoOperatorInRegion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	_, err := f.svc.Move(ctx, "sim1", "Antarctica")
	require.NoError(t, err)

	_, err = f.svc.Discover(ctx, "sim1")
	assert.ErrorIs(t, err, roamingdomain.ErrNoOperatorFound)
}

func TestDiscoverIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	before, err := f.led.GetState(ctx, "sim1")
	require.NoError(t, err)
	_, err = f.svc.Discover(ctx, "sim1")
	require.NoError(t, err)
	after, err := f.led.GetState(ctx, "sim1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAuthenticateSingleSimIsActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	verdict, err := f.svc.Authenticate(ctx, "sim1")
	require.NoError(t, err)
	assert.Equal(t, simdomain.ValidityActive, verdict)

	// Re-running keeps the verdict.
	verdict, err = f.svc.Authenticate(ctx, "sim1")
	require.NoError(t, err)
	assert.Equal(t, simdomain.ValidityActive, verdict)
}

func TestAuthenticateDuplicateMsisdnMarksFraud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")
	f.createSim(t, "sim2", "4691234567")
	f.createSim(t, "sim3", "4691234567")

	// First claimant of the msisdn wins; the rest come back Fraud.
	v1, err := f.svc.Authenticate(ctx, "sim1")
	require.NoError(t, err)
	assert.Equal(t, simdomain.ValidityActive, v1)

	v2, err := f.svc.Authenticate(ctx, "sim2")
	require.NoError(t, err)
	assert.Equal(t, simdomain.ValidityFraud, v2)

	v3, err := f.svc.Authenticate(ctx, "sim3")
	require.NoError(t, err)
	assert.Equal(t, simdomain.ValidityFraud, v3)
}

func TestAuthenticateRehabilitatesAfterDuplicateRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")
	f.createSim(t, "sim2", "4691234567")

	_, err := f.svc.Authenticate(ctx, "sim1")
	require.NoError(t, err)
	verdict, err := f.svc.Authenticate(ctx, "sim2")
	require.NoError(t, err)
	require.Equal(t, simdomain.ValidityFraud, verdict)

	require.NoError(t, f.sims.Delete(ctx, "sim1"))
	verdict, err = f.svc.Authenticate(ctx, "sim2")
	require.NoError(t, err)
	assert.Equal(t, simdomain.ValidityActive, verdict)
}

func TestUpdateRateCopiesPartnerRates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	_, err := f.svc.Move(ctx, "sim1", "Washington DC")
	require.NoError(t, err)
	operator, err := f.svc.Discover(ctx, "sim1")
	require.NoError(t, err)

	sim, err := f.svc.UpdateRate(ctx, "sim1", operator)
	require.NoError(t, err)
	assert.True(t, sim.IsRoaming)
	assert.Equal(t, "T-Mobile", sim.RoamingPartnerName)
	assert.Equal(t, "0.25", sim.RoamingRate)
	assert.Equal(t, "0.75", sim.OverageRate)
}

func TestUpdateRateBackHomeResetsRoamingState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	_, err := f.svc.Move(ctx, "sim1", "Washington DC")
	require.NoError(t, err)
	_, err = f.svc.UpdateRate(ctx, "sim1", "T-Mobile")
	require.NoError(t, err)

	_, err = f.svc.Move(ctx, "sim1", "New York")
	require.NoError(t, err)
	sim, err := f.svc.UpdateRate(ctx, "sim1", "AT&T")
	require.NoError(t, err)
	assert.False(t, sim.IsRoaming)
	assert.Empty(t, sim.RoamingPartnerName)
	assert.Empty(t, sim.RoamingRate)
	assert.Empty(t, sim.OverageRate)
}

func TestUpdateRateRejectsStaleOperator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")

	_, err := f.svc.Move(ctx, "sim1", "Washington DC")
	require.NoError(t, err)

	_, err = f.svc.UpdateRate(ctx, "sim1", "Verizon")
	assert.ErrorIs(t, err, roamingdomain.ErrOperatorMismatch)
}

func TestUpdateRateFraudGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createSim(t, "sim1", "4691234567")
	f.createSim(t, "sim2", "4691234567")

	_, err := f.svc.Authenticate(ctx, "sim1")
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, "sim2")
	require.NoError(t, err)

	_, err = f.svc.UpdateRate(ctx, "sim2", "AT&T")
	assert.ErrorIs(t, err, simdomain.ErrFraudulentSim)
}
