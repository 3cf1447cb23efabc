package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/omniapartners/incentive-engine/internal/aggregate"
	"github.com/omniapartners/incentive-engine/internal/bucket"
	"github.com/omniapartners/incentive-engine/internal/cache"
	"github.com/omniapartners/incentive-engine/internal/dealer"
	"github.com/omniapartners/incentive-engine/internal/domain"
	"github.com/omniapartners/incentive-engine/internal/goal"
	"github.com/omniapartners/incentive-engine/internal/report"
	"github.com/omniapartners/incentive-engine/internal/repository/postgres"
)

// Queries is the slice of the repository the service consumes.
// Satisfied by *postgres.Repo; tests plug in a stub.
type Queries interface {
	AutoRows(ctx context.Context, period domain.YearMonth, scope postgres.Scope) ([]domain.ActivationRow, error)
	ManualRows(ctx context.Context, period domain.YearMonth, scope postgres.Scope) ([]domain.ActivationRow, error)
	ThresholdRows(ctx context.Context, period domain.YearMonth) ([]goal.ConfigRow, error)
	DealerLookup(ctx context.Context) ([]domain.DealerInfo, error)
}

// Service orchestrates one report computation: fetch, merge, totalize,
// evaluate goals, cache.
type Service struct {
	queries    Queries
	cache      *cache.Cache
	normalizer *bucket.Normalizer
}

// NewService wires the report service. The cache may be nil; every
// request then recomputes.
func NewService(q Queries, c *cache.Cache, extraEnergyOperators []string) *Service {
	return &Service{
		queries:    q,
		cache:      c,
		normalizer: bucket.NewNormalizer(extraEnergyOperators...),
	}
}

const cachePrefix = "obiettivi"

// Report computes (or serves from cache) the incentive report for one
// period and scope. The cached value is the serialized core payload;
// the envelope is stamped fresh on every response.
func (s *Service) Report(ctx context.Context, period domain.YearMonth, scope postgres.Scope) (report.Envelope, error) {
	key := cache.Key(cachePrefix, period, scope.String())

	if payload, ok := s.cache.Get(ctx, key); ok {
		var rep report.Report
		if err := json.Unmarshal(payload, &rep); err == nil {
			return report.Wrap(rep, true), nil
		}
		// A corrupt entry falls through to recomputation.
	}

	rep, err := s.compute(ctx, period, scope)
	if err != nil {
		return report.Envelope{}, err
	}

	if payload, err := json.Marshal(rep); err == nil {
		s.cache.Set(ctx, key, payload)
	}
	return report.Wrap(rep, false), nil
}

// Invalidate drops the cached reports for one period. Called after
// manual override rows change.
func (s *Service) Invalidate(ctx context.Context, period domain.YearMonth) {
	s.cache.Invalidate(ctx, cachePrefix, period)
}

func (s *Service) compute(ctx context.Context, period domain.YearMonth, scope postgres.Scope) (report.Report, error) {
	registry, err := s.queries.DealerLookup(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("dealer lookup: %w", err)
	}
	autoRows, err := s.queries.AutoRows(ctx, period, scope)
	if err != nil {
		return report.Report{}, fmt.Errorf("auto rows: %w", err)
	}
	manualRows, err := s.queries.ManualRows(ctx, period, scope)
	if err != nil {
		return report.Report{}, fmt.Errorf("manual rows: %w", err)
	}
	thresholds, err := s.queries.ThresholdRows(ctx, period)
	if err != nil {
		return report.Report{}, fmt.Errorf("threshold rows: %w", err)
	}

	aggs, err := aggregate.Merge(autoRows, manualRows, dealer.NewResolver(registry), s.normalizer)
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(period, aggs, thresholds)
}
