package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/roamclearlabs/roamclear/internal/billing/domain"
	"github.com/roamclearlabs/roamclear/internal/clock"
	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
	simrepository "github.com/roamclearlabs/roamclear/internal/sim/repository"
)

type Service struct {
	ledger  ledgerdomain.Ledger
	log     *zap.Logger
	clock   clock.Clock
	simRepo simdomain.Repository
}

type ServiceParam struct {
	fx.In

	Ledger ledgerdomain.Ledger
	Log    *zap.Logger
	Clock  clock.Clock
}

func NewService(p ServiceParam) billingdomain.Service {
	return &Service{
		ledger:  p.Ledger,
		log:     p.Log.Named("billing.service"),
		clock:   p.Clock,
		simRepo: simrepository.NewRepository(p.Ledger),
	}
}

func (s *Service) VerifyUser(ctx context.Context, publicKey string) (billingdomain.VerifyResult, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return billingdomain.VerifyResult{}, err
	}
	if sim.IsValid == simdomain.ValidityFraud {
		return billingdomain.VerifyResult{}, fmt.Errorf("sim %s: %w", publicKey, simdomain.ErrFraudulentSim)
	}

	result, crossed, err := overageStatus(sim)
	if err != nil {
		return billingdomain.VerifyResult{}, err
	}
	if crossed {
		sim.OverageFlag = true
		if err := s.simRepo.Put(ctx, sim); err != nil {
			return billingdomain.VerifyResult{}, err
		}
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "VerifyUser", publicKey, billingdomain.VerifyUserEvent{
		PublicKey:      publicKey,
		NearingOverage: result.NearingOverage,
		AllowOverage:   string(result.AllowOverage),
	}); err != nil {
		return billingdomain.VerifyResult{}, err
	}
	s.log.Info("user verified",
		zap.String("sim", publicKey),
		zap.Bool("nearingOverage", result.NearingOverage))
	return result, nil
}

func (s *Service) SetOverageConsent(ctx context.Context, publicKey string, allowOverage bool) (*simdomain.SubscriberSim, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return nil, err
	}

	// Consent is captured once per overage episode: only while the sim is
	// over threshold and no answer has been recorded yet.
	if sim.OverageFlag && sim.AllowOverage == simdomain.TriStateUnset {
		if allowOverage {
			sim.AllowOverage = simdomain.TriStateTrue
		} else {
			sim.AllowOverage = simdomain.TriStateFalse
		}
		if err := s.simRepo.Put(ctx, sim); err != nil {
			return nil, err
		}
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "SetOverageFlag", publicKey, billingdomain.SetOverageFlagEvent{
		PublicKey:    publicKey,
		OverageFlag:  sim.OverageFlag,
		AllowOverage: string(sim.AllowOverage),
	}); err != nil {
		return nil, err
	}
	s.log.Info("overage consent recorded",
		zap.String("sim", publicKey),
		zap.String("allowOverage", string(sim.AllowOverage)))
	return sim, nil
}

func (s *Service) CallOut(ctx context.Context, publicKey string) (time.Time, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return time.Time{}, err
	}
	if sim.OverageFlag && sim.AllowOverage == simdomain.TriStateFalse {
		return time.Time{}, fmt.Errorf("sim %s: %w", publicKey, billingdomain.ErrOverageDenied)
	}

	start := s.clock.Now(ctx)
	sim.CallDetails = append(sim.CallDetails, simdomain.CallDetail{CallBegin: &start})
	if err := s.simRepo.Put(ctx, sim); err != nil {
		return time.Time{}, err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "CallOut", publicKey, billingdomain.CallOutEvent{
		PublicKey: publicKey,
		StartTime: start,
	}); err != nil {
		return time.Time{}, err
	}
	s.log.Info("call started", zap.String("sim", publicKey), zap.Time("start", start))
	return start, nil
}

func (s *Service) CallEnd(ctx context.Context, publicKey string) (billingdomain.CallEndResult, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return billingdomain.CallEndResult{}, err
	}
	if sim.IsValid == simdomain.ValidityFraud {
		return billingdomain.CallEndResult{}, fmt.Errorf("sim %s: %w", publicKey, simdomain.ErrFraudulentSim)
	}

	idx := sim.OpenCallIndex()
	if idx < 0 {
		return billingdomain.CallEndResult{}, fmt.Errorf("sim %s: %w", publicKey, billingdomain.ErrNoOpenCall)
	}
	end := s.clock.Now(ctx)
	sim.CallDetails[idx].CallEnd = &end
	if err := s.simRepo.Put(ctx, sim); err != nil {
		return billingdomain.CallEndResult{}, err
	}

	begin := *sim.CallDetails[idx].CallBegin
	result := billingdomain.CallEndResult{
		CallBegin:       begin,
		CallEnd:         end,
		DurationSeconds: durationSeconds(begin, end),
		CallDetailIndex: idx,
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "CallEnd", publicKey, billingdomain.CallEndEvent{
		PublicKey:       publicKey,
		StartTime:       begin,
		EndTime:         end,
		CallDuration:    result.DurationSeconds,
		CallDetailIndex: idx,
	}); err != nil {
		return billingdomain.CallEndResult{}, err
	}
	s.log.Info("call ended",
		zap.String("sim", publicKey),
		zap.Int64("durationSeconds", result.DurationSeconds),
		zap.Int("callDetailIndex", idx))
	return result, nil
}

func (s *Service) CallPay(ctx context.Context, publicKey string, callDetailIndex int) (billingdomain.CallPayResult, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return billingdomain.CallPayResult{}, err
	}
	if sim.IsValid == simdomain.ValidityFraud {
		return billingdomain.CallPayResult{}, fmt.Errorf("sim %s: %w", publicKey, simdomain.ErrFraudulentSim)
	}
	if callDetailIndex < 0 || callDetailIndex >= len(sim.CallDetails) {
		return billingdomain.CallPayResult{}, fmt.Errorf("sim %s index %d: %w",
			publicKey, callDetailIndex, billingdomain.ErrCallNotFound)
	}
	call := sim.CallDetails[callDetailIndex]
	if !call.Closed() {
		return billingdomain.CallPayResult{}, fmt.Errorf("sim %s index %d: %w",
			publicKey, callDetailIndex, billingdomain.ErrCallNotClosed)
	}

	rateStr := sim.RoamingRate
	if sim.OverageFlag {
		rateStr = sim.OverageRate
	}
	rate, err := parseRate(rateStr)
	if err != nil {
		return billingdomain.CallPayResult{}, fmt.Errorf("sim %s: %w", publicKey, err)
	}

	seconds := durationSeconds(*call.CallBegin, *call.CallEnd)
	minutes := (seconds + 59) / 60
	charges := rate.Mul(decimal.NewFromInt(minutes)).Round(2)

	sim.CallDetails[callDetailIndex].CallCharges = charges.StringFixed(2)
	if err := s.simRepo.Put(ctx, sim); err != nil {
		return billingdomain.CallPayResult{}, err
	}

	result := billingdomain.CallPayResult{
		DurationSeconds: seconds,
		RateUsed:        rate.String(),
		CallCharges:     charges.StringFixed(2),
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "CallPay", publicKey, billingdomain.CallPayEvent{
		PublicKey:    publicKey,
		CallDuration: seconds,
		RateUsed:     result.RateUsed,
		CallCharges:  result.CallCharges,
	}); err != nil {
		return billingdomain.CallPayResult{}, err
	}
	s.log.Info("call paid",
		zap.String("sim", publicKey),
		zap.String("charges", result.CallCharges),
		zap.String("rate", result.RateUsed))
	return result, nil
}

// overageStatus computes whether the sim is at or over its threshold. Once
// overageFlag is set it stays set; before that, the sum of all priced calls
// plus one more minute at the current roaming rate is compared against the
// threshold (strictly greater).
func overageStatus(sim *simdomain.SubscriberSim) (billingdomain.VerifyResult, bool, error) {
	if sim.OverageFlag {
		return billingdomain.VerifyResult{NearingOverage: true, AllowOverage: sim.AllowOverage}, false, nil
	}

	total := decimal.Zero
	for _, call := range sim.CallDetails {
		if !call.Closed() || call.CallCharges == "" {
			continue
		}
		charge, err := decimal.NewFromString(call.CallCharges)
		if err != nil {
			return billingdomain.VerifyResult{}, false, fmt.Errorf("sim %s charge %q: %w",
				sim.PublicKey, call.CallCharges, simdomain.ErrInvalidDecimal)
		}
		total = total.Add(charge)
	}
	rate, err := parseRate(sim.RoamingRate)
	if err != nil {
		return billingdomain.VerifyResult{}, false, fmt.Errorf("sim %s: %w", sim.PublicKey, err)
	}
	threshold, err := parseRate(sim.OverageThreshold)
	if err != nil {
		return billingdomain.VerifyResult{}, false, fmt.Errorf("sim %s: %w", sim.PublicKey, err)
	}

	if total.Add(rate).GreaterThan(threshold) {
		return billingdomain.VerifyResult{NearingOverage: true, AllowOverage: sim.AllowOverage}, true, nil
	}
	return billingdomain.VerifyResult{NearingOverage: false, AllowOverage: sim.AllowOverage}, false, nil
}

// durationSeconds is the billed call length: elapsed milliseconds rounded up
// to whole seconds.
func durationSeconds(begin, end time.Time) int64 {
	ms := end.Sub(begin).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return (ms + 999) / 1000
}

// parseRate parses a decimal-as-string field, treating empty (sim at home,
// no rate copied yet) as zero.
func parseRate(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate %q: %w", v, simdomain.ErrInvalidDecimal)
	}
	return d, nil
}

func (s *Service) mustGetSim(ctx context.Context, publicKey string) (*simdomain.SubscriberSim, error) {
	sim, err := s.simRepo.Get(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, fmt.Errorf("sim %s: %w", publicKey, simdomain.ErrSimNotFound)
	}
	return sim, nil
}
