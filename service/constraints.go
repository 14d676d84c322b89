package service

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"credit-simulator/domain"
)

// Bounds are the inclusive eligibility limits of a credit product.
type Bounds struct {
	MinCapital  decimal.Decimal
	MaxCapital  decimal.Decimal
	MinDuration int
	MaxDuration int
	MinIncome   decimal.Decimal
	MaxIncome   decimal.Decimal
}

type constraintRule struct {
	violated func(capital decimal.Decimal, duration int, income decimal.Decimal) bool
	message  string
}

// ConstraintValidator checks a request against product bounds and reports
// every violated rule at once.
type ConstraintValidator struct {
	rules []constraintRule
}

func NewConstraintValidator(b Bounds) ConstraintValidator {
	p := message.NewPrinter(language.English)

	// order matters: capital, duration, income
	return ConstraintValidator{rules: []constraintRule{
		{
			violated: func(c decimal.Decimal, _ int, _ decimal.Decimal) bool {
				return c.LessThan(b.MinCapital) || c.GreaterThan(b.MaxCapital)
			},
			message: p.Sprintf("The capital must be between %s€ and %s€.",
				formatAmount(p, b.MinCapital), formatAmount(p, b.MaxCapital)),
		},
		{
			violated: func(_ decimal.Decimal, d int, _ decimal.Decimal) bool {
				return d < b.MinDuration || d > b.MaxDuration
			},
			message: p.Sprintf("The duration must be between %d and %d months.", b.MinDuration, b.MaxDuration),
		},
		{
			violated: func(_ decimal.Decimal, _ int, i decimal.Decimal) bool {
				return i.LessThan(b.MinIncome) || i.GreaterThan(b.MaxIncome)
			},
			message: p.Sprintf("The income must be between %s€ and %s€ per year.",
				formatAmount(p, b.MinIncome), formatAmount(p, b.MaxIncome)),
		},
	}}
}

// Validate returns a *domain.ValidationError listing all violations, or nil.
func (v ConstraintValidator) Validate(capital decimal.Decimal, duration int, income decimal.Decimal) error {
	var violations []string
	for _, rule := range v.rules {
		if rule.violated(capital, duration, income) {
			violations = append(violations, rule.message)
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: violations}
}

func formatAmount(p *message.Printer, d decimal.Decimal) string {
	if d.IsInteger() {
		return p.Sprintf("%d", d.IntPart())
	}
	return p.Sprintf("%.2f", d.InexactFloat64())
}
