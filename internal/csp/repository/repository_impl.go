package repository

import (
	"context"
	"encoding/json"
	"fmt"

	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
)

type Repository struct {
	ledger ledgerdomain.Ledger
}

func NewRepository(ledger ledgerdomain.Ledger) *Repository {
	return &Repository{ledger: ledger}
}

func (r *Repository) Get(ctx context.Context, name string) (*cspdomain.CSP, error) {
	raw, err := r.ledger.GetState(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var csp cspdomain.CSP
	if err := json.Unmarshal(raw, &csp); err != nil {
		return nil, fmt.Errorf("decode csp %s: %w", name, err)
	}
	return &csp, nil
}

func (r *Repository) Put(ctx context.Context, csp *cspdomain.CSP) error {
	raw, err := json.Marshal(csp)
	if err != nil {
		return fmt.Errorf("marshal csp %s: %w", csp.Name, err)
	}
	return r.ledger.PutState(ctx, csp.Name, raw)
}

func (r *Repository) Delete(ctx context.Context, name string) error {
	return r.ledger.DeleteState(ctx, name)
}
