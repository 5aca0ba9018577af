package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	"github.com/roamclearlabs/roamclear/internal/csp/repository"
	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	querydomain "github.com/roamclearlabs/roamclear/internal/query/domain"
)

type Service struct {
	ledger ledgerdomain.Ledger
	query  querydomain.Service
	log    *zap.Logger
	repo   cspdomain.Repository
}

type ServiceParam struct {
	fx.In

	Ledger ledgerdomain.Ledger
	Query  querydomain.Service
	Log    *zap.Logger
}

func NewService(p ServiceParam) cspdomain.Service {
	return &Service{
		ledger: p.Ledger,
		query:  p.Query,
		log:    p.Log.Named("csp.service"),
		repo:   repository.NewRepository(p.Ledger),
	}
}

func (s *Service) Create(ctx context.Context, name, region, overageRate, roamingRate string) (*cspdomain.CSP, error) {
	if err := validate(name, region, overageRate, roamingRate); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("csp %s: %w", name, cspdomain.ErrCSPExists)
	}

	csp := cspdomain.New(name, region, overageRate, roamingRate)
	if err := s.repo.Put(ctx, &csp); err != nil {
		return nil, err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "CreateCSP", name, cspdomain.CreateCSPEvent{
		Name:        csp.Name,
		Region:      csp.Region,
		OverageRate: csp.OverageRate,
		RoamingRate: csp.RoamingRate,
	}); err != nil {
		return nil, err
	}
	s.log.Info("csp created", zap.String("csp", name), zap.String("region", region))
	return &csp, nil
}

func (s *Service) Update(ctx context.Context, name, region, overageRate, roamingRate string) (*cspdomain.CSP, error) {
	if err := validate(name, region, overageRate, roamingRate); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("csp %s: %w", name, cspdomain.ErrCSPNotFound)
	}

	csp := cspdomain.New(name, region, overageRate, roamingRate)
	if err := s.repo.Put(ctx, &csp); err != nil {
		return nil, err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "UpdateCSP", name, cspdomain.UpdateCSPEvent{
		Name:        csp.Name,
		Region:      csp.Region,
		OverageRate: csp.OverageRate,
		RoamingRate: csp.RoamingRate,
	}); err != nil {
		return nil, err
	}
	s.log.Info("csp updated", zap.String("csp", name))
	return &csp, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	existing, err := s.repo.Get(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("csp %s: %w", name, cspdomain.ErrCSPNotFound)
	}

	sims, err := s.query.SimsForCSP(ctx, name)
	if err != nil {
		return err
	}
	if len(sims) > 0 {
		return fmt.Errorf("csp %s has sims in its network [%s]: %w",
			name, strings.Join(sims, ", "), cspdomain.ErrCSPInUse)
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	if err := ledgerdomain.EmitJSON(ctx, s.ledger, "DeleteCSP", name, cspdomain.DeleteCSPEvent{Name: name}); err != nil {
		return err
	}
	s.log.Info("csp deleted", zap.String("csp", name))
	return nil
}

func validate(name, region, overageRate, roamingRate string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(region) == "" {
		return fmt.Errorf("csp name and region: %w", cspdomain.ErrMissingField)
	}
	for _, rate := range []string{overageRate, roamingRate} {
		if _, err := decimal.NewFromString(rate); err != nil {
			return fmt.Errorf("csp %s rate %q: %w", name, rate, cspdomain.ErrInvalidRate)
		}
	}
	return nil
}
