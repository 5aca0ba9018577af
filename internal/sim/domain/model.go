// Package domain holds the SubscriberSim aggregate: the subscriber record,
// its embedded call details, and the typed flags that replace the string
// booleans of the legacy wire format.
package domain

import (
	"context"
	"errors"
	"time"
)

// DocType tags SubscriberSim documents in the world state.
const DocType = "SubscriberSim"

var (
	ErrSimExists              = errors.New("subscriber sim already exists")
	ErrSimNotFound            = errors.New("subscriber sim does not exist")
	ErrHomeOperatorNotFound   = errors.New("home operator csp does not exist")
	ErrRoamingPartnerNotFound = errors.New("roaming partner csp does not exist")
	// ErrFraudulentSim blocks every lifecycle and billing transition once
	// authentication has marked the sim as fraud.
	ErrFraudulentSim  = errors.New("subscriber sim is marked as fraud")
	ErrInvalidDecimal = errors.New("value is not a valid decimal")
	ErrMissingField   = errors.New("missing required field")
)

// Validity is the authentication verdict for a sim. Unset until the first
// authentication runs; after that re-authentication re-derives it, it never
// toggles on its own.
type Validity string

const (
	ValidityUnset  Validity = ""
	ValidityActive Validity = "Active"
	ValidityFraud  Validity = "Fraud"
)

// TriState is a yes/no answer that may not have been given yet. Replaces the
// legacy 'TRUE'/'FALSE'/'' string flags; comparison is never case-sensitive.
type TriState string

const (
	TriStateUnset TriState = ""
	TriStateTrue  TriState = "true"
	TriStateFalse TriState = "false"
)

// CallDetail is one call session, embedded in the owning sim in call order.
// A call is open while CallEnd is nil; CallCharges stays empty until callPay
// prices the closed call.
type CallDetail struct {
	CallBegin   *time.Time `json:"callBegin,omitempty"`
	CallEnd     *time.Time `json:"callEnd,omitempty"`
	CallCharges string     `json:"callCharges"`
}

// Open reports whether the call has begun and not yet ended.
func (c CallDetail) Open() bool { return c.CallBegin != nil && c.CallEnd == nil }

// Closed reports whether the call has both begin and end timestamps.
func (c CallDetail) Closed() bool { return c.CallBegin != nil && c.CallEnd != nil }

// SubscriberSim is the roaming unit of record. PublicKey is the ledger key.
// RoamingRate/OverageRate are the currently applicable rates copied from the
// active roaming partner; both empty while the sim is home.
type SubscriberSim struct {
	PublicKey          string       `json:"publicKey"`
	MSISDN             string       `json:"msisdn"`
	Address            string       `json:"address"`
	HomeOperatorName   string       `json:"homeOperatorName"`
	RoamingPartnerName string       `json:"roamingPartnerName"`
	IsRoaming          bool         `json:"isRoaming"`
	Location           string       `json:"location"`
	Latitude           string       `json:"latitude"`
	Longitude          string       `json:"longitude"`
	RoamingRate        string       `json:"roamingRate"`
	OverageRate        string       `json:"overageRate"`
	CallDetails        []CallDetail `json:"callDetails"`
	IsValid            Validity     `json:"isValid"`
	OverageThreshold   string       `json:"overageThreshold"`
	AllowOverage       TriState     `json:"allowOverage"`
	OverageFlag        bool         `json:"overageFlag"`
	Type               string       `json:"type"`
}

// OpenCallIndex returns the index of the earliest open call, or -1. The
// engine serializes calls, so at most one entry should ever be open.
func (s *SubscriberSim) OpenCallIndex() int {
	for i, call := range s.CallDetails {
		if call.Open() {
			return i
		}
	}
	return -1
}

// CreateInput carries every field of createSubscriberSim/updateSubscriberSim.
type CreateInput struct {
	PublicKey          string
	MSISDN             string
	Address            string
	HomeOperatorName   string
	RoamingPartnerName string
	IsRoaming          bool
	Location           string
	Latitude           string
	Longitude          string
	RoamingRate        string
	OverageRate        string
	CallDetails        []CallDetail
	IsValid            Validity
	OverageThreshold   string
	AllowOverage       TriState
	OverageFlag        bool
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*SubscriberSim, error)
	Update(ctx context.Context, in CreateInput) (*SubscriberSim, error)
	Delete(ctx context.Context, publicKey string) error
}

type CreateSubscriberSimEvent struct {
	PublicKey        string `json:"publicKey"`
	MSISDN           string `json:"msisdn"`
	HomeOperatorName string `json:"homeOperatorName"`
	Location         string `json:"location"`
}

type UpdateSubscriberSimEvent = CreateSubscriberSimEvent

type DeleteSimEvent struct {
	PublicKey string `json:"publicKey"`
}
