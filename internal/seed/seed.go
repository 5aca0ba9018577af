// Package seed loads a small demo network: three carriers and six sims,
// mirroring the sample data the settlement process was designed around.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

type cspSeed struct {
	name, region, overageRate, roamingRate string
}

type simSeed struct {
	publicKey, msisdn, address, homeOperator, location, latitude, longitude string
	overageThreshold                                                        string
}

var csps = []cspSeed{
	{"AT&T", "New York", "0.50", "0.75"},
	{"T-Mobile", "Washington DC", "0.75", "0.25"},
	{"Verizon", "Boston", "0.25", "1.00"},
}

var sims = []simSeed{
	{"sim1", "4691234567", "New York", "AT&T", "New York", "40.942746", "-74.91", "5.00"},
	{"sim2", "4691234568", "New York", "AT&T", "New York", "36.931", "-78.994838", "5.00"},
	{"sim3", "4691234569", "Washington DC", "T-Mobile", "Washington DC", "37.776", "-77.414", "5.00"},
	{"sim4", "3097218855", "Washington DC", "T-Mobile", "Washington DC", "38.50", "-75.678", "5.00"},
	{"sim5", "9091234567", "Washington DC", "T-Mobile", "Washington DC", "40.145", "-71.6574", "5.00"},
	{"sim6", "9091234568", "Boston", "Verizon", "Boston", "41.3851", "-78.345", "5.00"},
}

// Run creates the demo records, skipping any that already exist so the
// command can be re-run safely.
func Run(ctx context.Context, cspsvc cspdomain.Service, simsvc simdomain.Service, log *zap.Logger) error {
	log = log.Named("seed")

	for _, c := range csps {
		_, err := cspsvc.Create(ctx, c.name, c.region, c.overageRate, c.roamingRate)
		if errors.Is(err, cspdomain.ErrCSPExists) {
			log.Info("csp already present", zap.String("csp", c.name))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed csp %s: %w", c.name, err)
		}
	}

	for _, m := range sims {
		_, err := simsvc.Create(ctx, simdomain.CreateInput{
			PublicKey:        m.publicKey,
			MSISDN:           m.msisdn,
			Address:          m.address,
			HomeOperatorName: m.homeOperator,
			Location:         m.location,
			Latitude:         m.latitude,
			Longitude:        m.longitude,
			OverageThreshold: m.overageThreshold,
		})
		if errors.Is(err, simdomain.ErrSimExists) {
			log.Info("sim already present", zap.String("sim", m.publicKey))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed sim %s: %w", m.publicKey, err)
		}
	}

	log.Info("seed complete", zap.Int("csps", len(csps)), zap.Int("sims", len(sims)))
	return nil
}
