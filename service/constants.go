package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SimulationCacheTTL is how long a computed simulation stays cached.
	SimulationCacheTTL = 24 * time.Hour

	cacheKeyPrefix = "Simulation"

	moneyPlaces = 2  // cents
	ratePlaces  = 20 // fractional digits kept for rates and growth factors
)

var (
	one = decimal.NewFromInt(1)

	// annual percentage -> monthly fraction
	monthlyRateDivisor = decimal.NewFromInt(1200)
)

// roundMoney rounds to cents using banker's rounding (half to even).
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(moneyPlaces)
}
