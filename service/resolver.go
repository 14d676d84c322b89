package service

import "credit-simulator/domain"

// StrategyResolver maps credit types to their strategy. Register is meant for
// start-up wiring and must not race with Resolve.
type StrategyResolver struct {
	strategies map[domain.CreditType]CreditStrategy
}

// NewStrategyResolver returns a resolver with every built-in product registered.
func NewStrategyResolver() *StrategyResolver {
	r := &StrategyResolver{strategies: make(map[domain.CreditType]CreditStrategy)}
	r.Register(domain.CreditTypeFixed, NewFixedCreditStrategy())
	return r
}

func (r *StrategyResolver) Register(creditType domain.CreditType, strategy CreditStrategy) {
	r.strategies[creditType] = strategy
}

func (r *StrategyResolver) Resolve(creditType domain.CreditType) (CreditStrategy, error) {
	strategy, ok := r.strategies[creditType]
	if !ok {
		return nil, &domain.UnsupportedCreditTypeError{CreditType: creditType}
	}
	return strategy, nil
}
