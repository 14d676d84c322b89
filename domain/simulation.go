package domain

import "github.com/shopspring/decimal"

// CreditType identifies a credit product variant.
type CreditType string

const (
	CreditTypeFixed CreditType = "Fixed"
)

type SimulationRequest struct {
	Capital      decimal.Decimal
	Duration     int // months
	AnnualIncome decimal.Decimal
	CreditType   CreditType
}

// DepreciationLine is one month of the amortization schedule.
type DepreciationLine struct {
	MonthlyAmount    decimal.Decimal `json:"monthlyAmount"`
	InterestShare    decimal.Decimal `json:"interestShare"`
	CapitalShare     decimal.Decimal `json:"capitalShare"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

type SimulationResult struct {
	FixedAnnualRate        decimal.Decimal    `json:"fixedAnnualRate"`
	MonthlyAmount          decimal.Decimal    `json:"monthlyAmount"`
	DepreciationTableLines []DepreciationLine `json:"depreciationTableLines"`
}
