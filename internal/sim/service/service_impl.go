package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	csprepository "github.com/roamclearlabs/roamclear/internal/csp/repository"
	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
	"github.com/roamclearlabs/roamclear/internal/sim/repository"
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

func NewService(p ServiceParam) simdomain.Service {
	return &Service{
		ledger:  p.Ledger,
		log:     p.Log.Named("sim.service"),
		simRepo: repository.NewRepository(p.Ledger),
		cspRepo: csprepository.NewRepository(p.Ledger),
	}
}

func (s *Service) Create(ctx context.Context, in simdomain.CreateInput) (*simdomain.SubscriberSim, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.simRepo.Get(ctx, in.PublicKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("sim %s: %w", in.PublicKey, simdomain.ErrSimExists)
	}
	if err := s.checkOperators(ctx, in); err != nil {
		return nil, err
	}

	sim := build(in)
	if err := s.simRepo.Put(ctx, &sim); err != nil {
		return nil, err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "CreateSubscriberSim", sim.PublicKey, simdomain.CreateSubscriberSimEvent{
		PublicKey:        sim.PublicKey,
		MSISDN:           sim.MSISDN,
		HomeOperatorName: sim.HomeOperatorName,
		Location:         sim.Location,
	}); err != nil {
		return nil, err
	}
	s.log.Info("sim created",
		zap.String("sim", sim.PublicKey),
		zap.String("homeOperator", sim.HomeOperatorName))
	return &sim, nil
}

func (s *Service) Update(ctx context.Context, in simdomain.CreateInput) (*simdomain.SubscriberSim, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.simRepo.Get(ctx, in.PublicKey)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("sim %s: %w", in.PublicKey, simdomain.ErrSimNotFound)
	}
	if err := s.checkOperators(ctx, in); err != nil {
		return nil, err
	}

	sim := build(in)
	if err := s.simRepo.Put(ctx, &sim); err != nil {
		return nil, err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "UpdateSubscriberSim", sim.PublicKey, simdomain.UpdateSubscriberSimEvent{
		PublicKey:        sim.PublicKey,
		MSISDN:           sim.MSISDN,
		HomeOperatorName: sim.HomeOperatorName,
		Location:         sim.Location,
	}); err != nil {
		return nil, err
	}
	s.log.Info("sim updated", zap.String("sim", sim.PublicKey))
	return &sim, nil
}

func (s *Service) Delete(ctx context.Context, publicKey string) error {
	existing, err := s.simRepo.Get(ctx, publicKey)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("sim %s: %w", publicKey, simdomain.ErrSimNotFound)
	}
	if err := s.simRepo.Delete(ctx, publicKey); err != nil {
		return err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "DeleteSim", publicKey, simdomain.DeleteSimEvent{PublicKey: publicKey}); err != nil {
		return err
	}
	s.log.Info("sim deleted", zap.String("sim", publicKey))
	return nil
}

// checkOperators enforces the referential invariant: home operator must
// exist, roaming partner too when set.
func (s *Service) checkOperators(ctx context.Context, in simdomain.CreateInput) error {
	home, err := s.cspRepo.Get(ctx, in.HomeOperatorName)
	if err != nil {
		return err
	}
	if home == nil {
		return fmt.Errorf("home operator %s for sim %s: %w",
			in.HomeOperatorName, in.PublicKey, simdomain.ErrHomeOperatorNotFound)
	}
	if in.RoamingPartnerName != "" {
		partner, err := s.cspRepo.Get(ctx, in.RoamingPartnerName)
		if err != nil {
			return err
		}
		if partner == nil {
			return fmt.Errorf("roaming partner %s for sim %s: %w",
				in.RoamingPartnerName, in.PublicKey, simdomain.ErrRoamingPartnerNotFound)
		}
	}
	return nil
}

func build(in simdomain.CreateInput) simdomain.SubscriberSim {
	callDetails := in.CallDetails
	if callDetails == nil {
		callDetails = []simdomain.CallDetail{}
	}
	return simdomain.SubscriberSim{
		PublicKey:          in.PublicKey,
		MSISDN:             in.MSISDN,
		Address:            in.Address,
		HomeOperatorName:   in.HomeOperatorName,
		RoamingPartnerName: in.RoamingPartnerName,
		IsRoaming:          in.IsRoaming,
		Location:           in.Location,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		RoamingRate:        in.RoamingRate,
		OverageRate:        in.OverageRate,
		CallDetails:        callDetails,
		IsValid:            in.IsValid,
		OverageThreshold:   in.OverageThreshold,
		AllowOverage:       in.AllowOverage,
		OverageFlag:        in.OverageFlag,
		Type:               simdomain.DocType,
	}
}

func validate(in simdomain.CreateInput) error {
	if strings.TrimSpace(in.PublicKey) == "" || strings.TrimSpace(in.MSISDN) == "" {
		return fmt.Errorf("sim publicKey and msisdn: %w", simdomain.ErrMissingField)
	}
	for _, v := range []string{in.RoamingRate, in.OverageRate, in.OverageThreshold} {
		if v == "" {
			continue
		}
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("sim %s value %q: %w", in.PublicKey, v, simdomain.ErrInvalidDecimal)
		}
	}
	return nil
}
