package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	querydomain "github.com/roamclearlabs/roamclear/internal/query/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

type Service struct {
	ledger ledgerdomain.Ledger
	log    *zap.Logger
}

type ServiceParam struct {
	fx.In

	Ledger ledgerdomain.Ledger
	Log    *zap.Logger
}

func NewService(p ServiceParam) querydomain.Service {
	return &Service{
		ledger: p.Ledger,
		log:    p.Log.Named("query.service"),
	}
}

func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	raw, err := s.ledger.GetState(ctx, key)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (s *Service) Read(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.ledger.GetState(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("asset %s: %w", key, querydomain.ErrAssetNotFound)
	}
	return raw, nil
}

func (s *Service) QueryAll(ctx context.Context) ([]querydomain.Result, error) {
	return s.QueryBySelector(ctx, ledgerdomain.Selector{})
}

func (s *Service) QueryBySelector(ctx context.Context, selector ledgerdomain.Selector) ([]querydomain.Result, error) {
	kvs, err := s.ledger.GetQueryResult(ctx, selector)
	if err != nil {
		return nil, err
	}
	out := make([]querydomain.Result, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, querydomain.Result{Key: kv.Key, Record: kv.Value})
	}
	return out, nil
}

func (s *Service) SimsForCSP(ctx context.Context, cspName string) ([]string, error) {
	selector := ledgerdomain.Selector{
		"type": simdomain.DocType,
		"$or": []any{
			map[string]any{"homeOperatorName": cspName},
			map[string]any{"roamingPartnerName": cspName},
		},
	}
	kvs, err := s.ledger.GetQueryResult(ctx, selector)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		keys = append(keys, kv.Key)
	}
	s.log.Debug("sims in csp network", zap.String("csp", cspName), zap.Strings("sims", keys))
	return keys, nil
}

func (s *Service) History(ctx context.Context, key string) ([]querydomain.Snapshot, error) {
	mods, err := s.ledger.GetHistoryForKey(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]querydomain.Snapshot, 0, len(mods))
	for _, mod := range mods {
		out = append(out, querydomain.Snapshot{
			Record:    mod.Value,
			IsDelete:  mod.IsDelete,
			Timestamp: mod.Timestamp,
		})
	}
	return out, nil
}
