// Package domain holds the carrier (CSP) record and its error taxonomy.
package domain

import (
	"context"
	"errors"
)

// DocType tags CSP documents in the world state.
const DocType = "CSP"

var (
	ErrCSPExists   = errors.New("csp already exists")
	ErrCSPNotFound = errors.New("csp does not exist")
	// ErrCSPInUse blocks deletion while any SubscriberSim still references the
	// CSP as home or roaming operator; the wrapped message lists the sim keys.
	ErrCSPInUse     = errors.New("csp has subscriber sims in its network")
	ErrInvalidRate  = errors.New("rate is not a valid decimal")
	ErrMissingField = errors.New("missing required field")
)

// CSP is a Communications Service Provider: a carrier with a region and the
// per-minute rates it charges visiting sims. Name is the ledger key. Rates
// stay decimal-as-string on the wire.
type CSP struct {
	Name        string `json:"name"`
	Region      string `json:"region"`
	OverageRate string `json:"overageRate"`
	RoamingRate string `json:"roamingRate"`
	Type        string `json:"type"`
}

func New(name, region, overageRate, roamingRate string) CSP {
	return CSP{
		Name:        name,
		Region:      region,
		OverageRate: overageRate,
		RoamingRate: roamingRate,
		Type:        DocType,
	}
}

type Service interface {
	Create(ctx context.Context, name, region, overageRate, roamingRate string) (*CSP, error)
	Update(ctx context.Context, name, region, overageRate, roamingRate string) (*CSP, error)
	Delete(ctx context.Context, name string) error
}

// Event payloads. Every mutating operation emits `<Op>Event-<name>` with the
// operation's salient output fields.

type CreateCSPEvent struct {
	Name        string `json:"name"`
	Region      string `json:"region"`
	OverageRate string `json:"overageRate"`
	RoamingRate string `json:"roamingRate"`
}

type UpdateCSPEvent = CreateCSPEvent

type DeleteCSPEvent struct {
	Name string `json:"name"`
}
