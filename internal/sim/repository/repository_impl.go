package repository

import (
	"context"
	"encoding/json"
	"fmt"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

type Repository struct {
	ledger ledgerdomain.Ledger
}

func NewRepository(ledger ledgerdomain.Ledger) *Repository {
	return &Repository{ledger: ledger}
}

func (r *Repository) Get(ctx context.Context, publicKey string) (*simdomain.SubscriberSim, error) {
	raw, err := r.ledger.GetState(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var sim simdomain.SubscriberSim
	if err := json.Unmarshal(raw, &sim); err != nil {
		return nil, fmt.Errorf("decode sim %s: %w", publicKey, err)
	}
	return &sim, nil
}

func (r *Repository) Put(ctx context.Context, sim *simdomain.SubscriberSim) error {
	raw, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("marshal sim %s: %w", sim.PublicKey, err)
	}
	return r.ledger.PutState(ctx, sim.PublicKey, raw)
}

func (r *Repository) Delete(ctx context.Context, publicKey string) error {
	return r.ledger.DeleteState(ctx, publicKey)
}
