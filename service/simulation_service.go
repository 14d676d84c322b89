package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"credit-simulator/domain"
	"credit-simulator/repository"
)

type Resolver interface {
	Resolve(creditType domain.CreditType) (CreditStrategy, error)
}

// SimulationService runs simulations cache-aside: a cached result is returned
// as is, otherwise the product strategy validates and computes a fresh one.
type SimulationService struct {
	cache    repository.CacheRepository
	resolver Resolver
	logger   logrus.FieldLogger
}

func NewSimulationService(
	cache repository.CacheRepository,
	resolver Resolver,
	logger logrus.FieldLogger,
) *SimulationService {
	return &SimulationService{cache: cache, resolver: resolver, logger: logger}
}

// CacheKey is the cache identity of a request. Changing its format orphans
// every stored entry.
func CacheKey(req domain.SimulationRequest) string {
	return fmt.Sprintf("%s_%s_%s_%d",
		cacheKeyPrefix, req.Capital.String(), req.AnnualIncome.String(), req.Duration)
}

// Handle returns the simulation for req. A cache hit skips validation: the
// entry was validated when it was first computed.
func (s *SimulationService) Handle(
	ctx context.Context,
	req domain.SimulationRequest,
) (domain.SimulationResult, error) {
	key := CacheKey(req)
	log := s.logger.WithField("cache_key", key)

	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("read simulation cache: %w", err)
	}
	if found && cached != "" {
		var result domain.SimulationResult
		if err := json.Unmarshal([]byte(cached), &result); err != nil {
			return domain.SimulationResult{}, fmt.Errorf("decode cached simulation %s: %w", key, err)
		}
		log.Debug("simulation served from cache")
		return result, nil
	}

	strategy, err := s.resolver.Resolve(req.CreditType)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	if err := strategy.ValidateConstraints(req.Capital, req.Duration, req.AnnualIncome); err != nil {
		log.WithError(err).Info("simulation rejected")
		return domain.SimulationResult{}, err
	}

	result, err := strategy.GenerateSimulation(req.Capital, req.Duration, req.AnnualIncome)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("encode simulation: %w", err)
	}
	if err := s.cache.Set(ctx, key, string(payload), SimulationCacheTTL); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("write simulation cache: %w", err)
	}

	log.WithFields(logrus.Fields{
		"credit_type": req.CreditType,
		"annual_rate": result.FixedAnnualRate.String(),
		"monthly":     result.MonthlyAmount.String(),
		"months":      len(result.DepreciationTableLines),
	}).Info("simulation computed")

	return result, nil
}
