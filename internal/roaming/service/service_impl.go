package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	csprepository "github.com/roamclearlabs/roamclear/internal/csp/repository"
	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	roamingdomain "github.com/roamclearlabs/roamclear/internal/roaming/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
	simrepository "github.com/roamclearlabs/roamclear/internal/sim/repository"
)

type Service struct {
	ledger  ledgerdomain.Ledger
	log     *zap.Logger
	simRepo simdomain.Repository
	cspRepo cspdomain.Repository
}

type ServiceParam struct {
	fx.In

	Ledger ledgerdomain.Ledger
	Log    *zap.Logger
}

func NewService(p ServiceParam) roamingdomain.Service {
	return &Service{
		ledger:  p.Ledger,
		log:     p.Log.Named("roaming.service"),
		simRepo: simrepository.NewRepository(p.Ledger),
		cspRepo: csprepository.NewRepository(p.Ledger),
	}
}

func (s *Service) Move(ctx context.Context, publicKey, newLocation string) (*simdomain.SubscriberSim, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return nil, err
	}

	sim.Location = newLocation
	if err := s.simRepo.Put(ctx, sim); err != nil {
		return nil, err
	}
	// The event reports the operator names as they were before discovery;
	// the move itself never changes roaming state.
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "Move", publicKey, roamingdomain.MoveEvent{
		PublicKey:          sim.PublicKey,
		HomeOperatorName:   sim.HomeOperatorName,
		RoamingPartnerName: sim.RoamingPartnerName,
		Location:           sim.Location,
	}); err != nil {
		return nil, err
	}
	s.log.Info("sim moved", zap.String("sim", publicKey), zap.String("location", newLocation))
	return sim, nil
}

func (s *Service) Discover(ctx context.Context, publicKey string) (string, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return "", err
	}
	operator, err := s.localOperator(ctx, sim)
	if err != nil {
		return "", err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "Discovery", publicKey, roamingdomain.DiscoveryEvent{
		PublicKey:     publicKey,
		LocalOperator: operator,
	}); err != nil {
		return "", err
	}
	s.log.Info("operator discovered",
		zap.String("sim", publicKey),
		zap.String("localOperator", operator))
	return operator, nil
}

func (s *Service) Authenticate(ctx context.Context, publicKey string) (simdomain.Validity, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return simdomain.ValidityUnset, err
	}

	// Another Active sim sharing the msisdn is the fraud condition. The
	// check re-derives validity from current state every time, so running
	// it again after the duplicate is removed rehabilitates the sim.
	others, err := s.ledger.GetQueryResult(ctx, ledgerdomain.Selector{
		"type":      simdomain.DocType,
		"msisdn":    sim.MSISDN,
		"isValid":   string(simdomain.ValidityActive),
		"publicKey": map[string]any{"$nin": []any{publicKey}},
	})
	if err != nil {
		return simdomain.ValidityUnset, err
	}

	verdict := simdomain.ValidityActive
	if len(others) > 0 {
		verdict = simdomain.ValidityFraud
	}
	sim.IsValid = verdict
	if err := s.simRepo.Put(ctx, sim); err != nil {
		return simdomain.ValidityUnset, err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "Authentication", publicKey, roamingdomain.AuthenticationEvent{
		PublicKey: publicKey,
		IsValid:   string(verdict),
	}); err != nil {
		return simdomain.ValidityUnset, err
	}
	s.log.Info("sim authenticated",
		zap.String("sim", publicKey),
		zap.String("isValid", string(verdict)))
	return verdict, nil
}

func (s *Service) UpdateRate(ctx context.Context, publicKey, localOperatorName string) (*simdomain.SubscriberSim, error) {
	sim, err := s.mustGetSim(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	if sim.IsValid == simdomain.ValidityFraud {
		return nil, fmt.Errorf("sim %s: %w", publicKey, simdomain.ErrFraudulentSim)
	}

	// The operator name travels through the orchestrator between discovery
	// and this call, so recompute it and refuse a value that went stale.
	expected, err := s.localOperator(ctx, sim)
	if err != nil {
		return nil, err
	}
	if localOperatorName != expected {
		return nil, fmt.Errorf("sim %s: got %q, discovery yields %q: %w",
			publicKey, localOperatorName, expected, roamingdomain.ErrOperatorMismatch)
	}

	if localOperatorName == sim.HomeOperatorName {
		if sim.IsRoaming {
			sim.RoamingPartnerName = ""
			sim.IsRoaming = false
			sim.RoamingRate = ""
			sim.OverageRate = ""
		}
		// Already home and not roaming: rewrite unchanged so retries stay
		// idempotent.
	} else {
		partner, err := s.cspRepo.Get(ctx, localOperatorName)
		if err != nil {
			return nil, err
		}
		if partner == nil {
			return nil, fmt.Errorf("roaming partner %s: %w",
				localOperatorName, simdomain.ErrRoamingPartnerNotFound)
		}
		sim.RoamingPartnerName = partner.Name
		sim.IsRoaming = true
		sim.RoamingRate = partner.RoamingRate
		sim.OverageRate = partner.OverageRate
	}

	if err := s.simRepo.Put(ctx, sim); err != nil {
		return nil, err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "UpdateRate", publicKey, roamingdomain.UpdateRateEvent{
		PublicKey:          sim.PublicKey,
		HomeOperatorName:   sim.HomeOperatorName,
		RoamingPartnerName: sim.RoamingPartnerName,
		IsRoaming:          sim.IsRoaming,
		RoamingRate:        sim.RoamingRate,
		OverageRate:        sim.OverageRate,
	}); err != nil {
		return nil, err
	}
	s.log.Info("rate updated",
		zap.String("sim", publicKey),
		zap.String("roamingPartner", sim.RoamingPartnerName),
		zap.Bool("isRoaming", sim.IsRoaming))
	return sim, nil
}

// localOperator is the discovery computation: the home CSP when the sim is
// in its home region, otherwise the lexicographically first CSP serving the
// sim's location.
func (s *Service) localOperator(ctx context.Context, sim *simdomain.SubscriberSim) (string, error) {
	home, err := s.cspRepo.Get(ctx, sim.HomeOperatorName)
	if err != nil {
		return "", err
	}
	if home == nil {
		return "", fmt.Errorf("home operator %s for sim %s: %w",
			sim.HomeOperatorName, sim.PublicKey, simdomain.ErrHomeOperatorNotFound)
	}
	if home.Region == sim.Location {
		return home.Name, nil
	}

	matches, err := s.ledger.GetQueryResult(ctx, ledgerdomain.Selector{
		"type":   cspdomain.DocType,
		"region": sim.Location,
	})
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("location %s for sim %s: %w",
			sim.Location, sim.PublicKey, roamingdomain.ErrNoOperatorFound)
	}
	names := make([]string, 0, len(matches))
	for _, kv := range matches {
		names = append(names, kv.Key)
	}
	sort.Strings(names)
	return names[0], nil
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
