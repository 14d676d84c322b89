package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RateTier applies AnnualRate to every income up to and including IncomeUpperBound.
type RateTier struct {
	IncomeUpperBound decimal.Decimal
	AnnualRate       decimal.Decimal
}

// RateTable is sorted by strictly ascending IncomeUpperBound.
type RateTable []RateTier

func NewRateTable(tiers ...RateTier) (RateTable, error) {
	for i := 1; i < len(tiers); i++ {
		if !tiers[i].IncomeUpperBound.GreaterThan(tiers[i-1].IncomeUpperBound) {
			return nil, fmt.Errorf("rate tier %d: upper bound %s is not above %s",
				i, tiers[i].IncomeUpperBound, tiers[i-1].IncomeUpperBound)
		}
	}
	table := make(RateTable, len(tiers))
	copy(table, tiers)
	return table, nil
}

func mustRateTable(tiers ...RateTier) RateTable {
	table, err := NewRateTable(tiers...)
	if err != nil {
		panic(err)
	}
	return table
}

func tier(bound int64, rate string) RateTier {
	return RateTier{
		IncomeUpperBound: decimal.NewFromInt(bound),
		AnnualRate:       decimal.RequireFromString(rate),
	}
}

// SelectRate returns the rate of the first tier whose bound is >= income.
func (t RateTable) SelectRate(annualIncome decimal.Decimal) (decimal.Decimal, error) {
	i := sort.Search(len(t), func(i int) bool {
		return t[i].IncomeUpperBound.GreaterThanOrEqual(annualIncome)
	})
	if i == len(t) {
		return decimal.Decimal{}, fmt.Errorf("no rate tier covers annual income %s", annualIncome)
	}
	return t[i].AnnualRate, nil
}
