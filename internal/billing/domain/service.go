// Package domain defines the call session and billing surface: the
// verify → consent → call-out chain and the call-end → call-pay chain.
package domain

import (
	"context"
	"errors"
	"time"

	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

var (
	// ErrOverageDenied blocks callOut when the sim is over threshold and the
	// subscriber explicitly declined overage charges.
	ErrOverageDenied = errors.New("call blocked: overage consent denied")
	ErrNoOpenCall    = errors.New("no open call to end")
	ErrCallNotFound  = errors.New("call detail index out of range")
	// ErrCallNotClosed rejects paying a call that has not ended yet.
	ErrCallNotClosed = errors.New("call has not ended")
)

// VerifyResult is the overage status verifyUser reports for the next call.
type VerifyResult struct {
	NearingOverage bool
	AllowOverage   simdomain.TriState
}

type CallEndResult struct {
	CallBegin       time.Time
	CallEnd         time.Time
	DurationSeconds int64
	CallDetailIndex int
}

type CallPayResult struct {
	DurationSeconds int64
	RateUsed        string
	CallCharges     string
}

type Service interface {
	// VerifyUser rejects fraudulent sims and computes the overage status,
	// persisting overageFlag when cumulative charges plus the next minute's
	// rate pass the threshold. The flag is sticky once set.
	VerifyUser(ctx context.Context, publicKey string) (VerifyResult, error)
	// SetOverageConsent captures the one-time overage answer. It only takes
	// effect while the sim is over threshold and no answer is recorded;
	// otherwise it is a no-op that still emits its event.
	SetOverageConsent(ctx context.Context, publicKey string, allowOverage bool) (*simdomain.SubscriberSim, error)
	// CallOut opens a new call unless overage was explicitly denied.
	CallOut(ctx context.Context, publicKey string) (time.Time, error)
	// CallEnd closes the earliest open call.
	CallEnd(ctx context.Context, publicKey string) (CallEndResult, error)
	// CallPay prices the closed call at the given index: whole-minute
	// increments, partial minute rounds up, overage rate when over
	// threshold. Recomputing with unchanged inputs yields the same charge.
	CallPay(ctx context.Context, publicKey string, callDetailIndex int) (CallPayResult, error)
}

type VerifyUserEvent struct {
	PublicKey      string `json:"publicKey"`
	NearingOverage bool   `json:"nearingOverage"`
	AllowOverage   string `json:"allowOverage"`
}

type SetOverageFlagEvent struct {
	PublicKey    string `json:"publicKey"`
	OverageFlag  bool   `json:"overageFlag"`
	AllowOverage string `json:"allowOverage"`
}

type CallOutEvent struct {
	PublicKey string    `json:"publicKey"`
	StartTime time.Time `json:"startTime"`
}

type CallEndEvent struct {
	PublicKey       string    `json:"publicKey"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	CallDuration    int64     `json:"callDuration"`
	CallDetailIndex int       `json:"callDetailIndex"`
}

type CallPayEvent struct {
	PublicKey    string `json:"publicKey"`
	CallDuration int64  `json:"callDuration"`
	RateUsed     string `json:"rateUsed"`
	CallCharges  string `json:"callCharges"`
}
