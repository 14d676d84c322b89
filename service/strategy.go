package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"credit-simulator/domain"
)

// CreditStrategy is one credit product: its eligibility rules, its rate
// selection and its amortization.
type CreditStrategy interface {
	ValidateConstraints(capital decimal.Decimal, duration int, annualIncome decimal.Decimal) error
	GenerateSimulation(capital decimal.Decimal, duration int, annualIncome decimal.Decimal) (domain.SimulationResult, error)
}

var fixedBounds = Bounds{
	MinCapital:  decimal.NewFromInt(20_000),
	MaxCapital:  decimal.NewFromInt(310_000),
	MinDuration: 180,
	MaxDuration: 360,
	MinIncome:   decimal.Zero,
	MaxIncome:   decimal.NewFromInt(53_900),
}

var fixedRates = mustRateTable(
	tier(16_400, "1.70"),
	tier(19_700, "1.90"),
	tier(23_000, "2.10"),
	tier(27_800, "2.30"),
	tier(32_700, "2.50"),
	tier(43_200, "2.70"),
	tier(53_900, "2.90"),
)

// FixedCreditStrategy keeps one annual rate, picked from income, for the
// whole loan.
type FixedCreditStrategy struct {
	validator ConstraintValidator
	rates     RateTable
}

func NewFixedCreditStrategy() *FixedCreditStrategy {
	return &FixedCreditStrategy{
		validator: NewConstraintValidator(fixedBounds),
		rates:     fixedRates,
	}
}

func (s *FixedCreditStrategy) ValidateConstraints(
	capital decimal.Decimal,
	duration int,
	annualIncome decimal.Decimal,
) error {
	return s.validator.Validate(capital, duration, annualIncome)
}

func (s *FixedCreditStrategy) GenerateSimulation(
	capital decimal.Decimal,
	duration int,
	annualIncome decimal.Decimal,
) (domain.SimulationResult, error) {
	rate, err := s.rates.SelectRate(annualIncome)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	schedule, err := GenerateSchedule(capital, duration, rate)
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("fixed credit schedule: %w", err)
	}

	return domain.SimulationResult{
		FixedAnnualRate:        rate,
		MonthlyAmount:          schedule.MonthlyAmount,
		DepreciationTableLines: schedule.Lines,
	}, nil
}
