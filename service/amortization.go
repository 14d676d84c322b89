package service

import (
	"github.com/shopspring/decimal"

	"credit-simulator/domain"
)

// Schedule is the output of GenerateSchedule.
type Schedule struct {
	MonthlyAmount decimal.Decimal
	Lines         []domain.DepreciationLine
}

// GenerateSchedule computes the fixed monthly payment for a loan and its
// month by month depreciation table. The last line absorbs whatever balance
// is left after rounding, so the table always closes at exactly zero.
func GenerateSchedule(
	capital decimal.Decimal,
	durationMonths int,
	annualRate decimal.Decimal,
) (Schedule, error) {
	if durationMonths <= 0 {
		return Schedule{}, domain.ErrInvalidDuration
	}

	balance := roundMoney(capital)
	monthlyRate := annualRate.DivRound(monthlyRateDivisor, ratePlaces)
	monthly := monthlyPayment(balance, durationMonths, monthlyRate)

	lines := make([]domain.DepreciationLine, 0, durationMonths)
	for month := 1; month <= durationMonths; month++ {
		interest := roundMoney(balance.Mul(monthlyRate))
		capitalShare := monthly.Sub(interest)
		amount := monthly

		last := month == durationMonths
		if last || capitalShare.GreaterThan(balance) {
			capitalShare = balance
			amount = interest.Add(capitalShare)
		}

		balance = balance.Sub(capitalShare)
		if last {
			balance = decimal.Zero
		}

		lines = append(lines, domain.DepreciationLine{
			MonthlyAmount:    amount,
			InterestShare:    interest,
			CapitalShare:     capitalShare,
			RemainingBalance: balance,
		})
	}

	return Schedule{MonthlyAmount: monthly, Lines: lines}, nil
}

// monthlyPayment is capital * r / (1 - (1+r)^-n), rounded to cents.
func monthlyPayment(capital decimal.Decimal, months int, monthlyRate decimal.Decimal) decimal.Decimal {
	if monthlyRate.IsZero() {
		return roundMoney(capital.Div(decimal.NewFromInt(int64(months))))
	}

	growth := compound(one.Add(monthlyRate), months)
	// multiply through by (1+r)^n to avoid a negative exponent
	payment := capital.Mul(monthlyRate).Mul(growth).DivRound(growth.Sub(one), ratePlaces)
	return roundMoney(payment)
}

// compound returns base^n by squaring, keeping ratePlaces digits per step.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(ratePlaces)
		}
		base = base.Mul(base).Round(ratePlaces)
		n >>= 1
	}
	return result
}
