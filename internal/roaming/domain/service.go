// Package domain defines the roaming lifecycle state machine surface.
//
// A sim is observably Home (isRoaming=false, roamingPartnerName="") or
// Roaming (isRoaming=true, partner set). The move → discover → authenticate
// → update-rate sequence is driven by an external orchestrator one ledger
// transaction at a time; every operation here is single-pass and safe to
// retry, and a sim parked between steps is a consistent state, not an error.
package domain

import (
	"context"
	"errors"

	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

var (
	// ErrNoOperatorFound means discovery found no CSP whose region matches
	// the sim's current location.
	ErrNoOperatorFound = errors.New("no operator found for location")
	// ErrOperatorMismatch rejects an updateRate whose operator argument no
	// longer matches what discovery would compute from current state. Guards
	// against stale or tampered hand-off values.
	ErrOperatorMismatch = errors.New("local operator does not match discovery result")
)

type Service interface {
	// Move overwrites the sim's location unconditionally.
	Move(ctx context.Context, publicKey, newLocation string) (*simdomain.SubscriberSim, error)
	// Discover computes the local operator for the sim's current location
	// without mutating the sim. When several CSPs serve the region the
	// lexicographically smallest name wins.
	Discover(ctx context.Context, publicKey string) (string, error)
	// Authenticate derives the sim's validity from current ledger state:
	// Fraud when another Active sim shares the msisdn, Active otherwise.
	Authenticate(ctx context.Context, publicKey string) (simdomain.Validity, error)
	// UpdateRate applies the discovered operator: back home it clears the
	// roaming fields, elsewhere it sets the partner and copies its rates.
	UpdateRate(ctx context.Context, publicKey, localOperatorName string) (*simdomain.SubscriberSim, error)
}

type MoveEvent struct {
	PublicKey          string `json:"publicKey"`
	HomeOperatorName   string `json:"homeOperatorName"`
	RoamingPartnerName string `json:"roamingPartnerName"`
	Location           string `json:"location"`
}

type DiscoveryEvent struct {
	PublicKey     string `json:"publicKey"`
	LocalOperator string `json:"localOperator"`
}

type AuthenticationEvent struct {
	PublicKey string `json:"publicKey"`
	IsValid   string `json:"isValid"`
}

type UpdateRateEvent struct {
	PublicKey          string `json:"publicKey"`
	HomeOperatorName   string `json:"homeOperatorName"`
	RoamingPartnerName string `json:"roamingPartnerName"`
	IsRoaming          bool   `json:"isRoaming"`
	RoamingRate        string `json:"roamingRate"`
	OverageRate        string `json:"overageRate"`
}
