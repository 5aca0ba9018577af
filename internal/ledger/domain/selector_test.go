package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
)

func TestSelectorEquality(t *testing.T) {
	sel := ledgerdomain.Selector{"type": "CSP", "region": "Boston"}

	assert.True(t, sel.MatchesRaw([]byte(`{"type":"CSP","region":"Boston","name":"Verizon"}`)))
	assert.False(t, sel.MatchesRaw([]byte(`{"type":"CSP","region":"New York"}`)))
	assert.False(t, sel.MatchesRaw([]byte(`{"region":"Boston"}`)))
}

func TestSelectorEmptyMatchesEverything(t *testing.T) {
	sel := ledgerdomain.Selector{}
	assert.True(t, sel.MatchesRaw([]byte(`{"anything":1}`)))
	assert.True(t, sel.MatchesRaw([]byte(`{}`)))
}

func TestSelectorOr(t *testing.T) {
	sel := ledgerdomain.Selector{
		"type": "SubscriberSim",
		"$or": []any{
			map[string]any{"homeOperatorName": "AT&T"},
			map[string]any{"roamingPartnerName": "AT&T"},
		},
	}

	assert.True(t, sel.MatchesRaw([]byte(`{"type":"SubscriberSim","homeOperatorName":"AT&T"}`)))
	assert.True(t, sel.MatchesRaw([]byte(`{"type":"SubscriberSim","homeOperatorName":"Verizon","roamingPartnerName":"AT&T"}`)))
	assert.False(t, sel.MatchesRaw([]byte(`{"type":"SubscriberSim","homeOperatorName":"Verizon","roamingPartnerName":""}`)))
}

func TestSelectorNin(t *testing.T) {
	sel := ledgerdomain.Selector{
		"msisdn":    "4691234567",
		"publicKey": map[string]any{"$nin": []any{"sim1"}},
	}

	assert.False(t, sel.MatchesRaw([]byte(`{"publicKey":"sim1","msisdn":"4691234567"}`)))
	assert.True(t, sel.MatchesRaw([]byte(`{"publicKey":"sim2","msisdn":"4691234567"}`)))
}

func TestSelectorNumbersCompareAcrossTypes(t *testing.T) {
	sel := ledgerdomain.Selector{"count": 3}
	assert.True(t, sel.MatchesRaw([]byte(`{"count":3}`)))
	assert.False(t, sel.MatchesRaw([]byte(`{"count":"3"}`)))
}

func TestSelectorUndecodableNeverMatches(t *testing.T) {
	sel := ledgerdomain.Selector{"a": "b"}
	assert.False(t, sel.MatchesRaw([]byte(`not json`)))
}
