package strategy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/types"
)

const defaultStrategyTimeout = 30 * time.Second

// Engine fans out one task per strategy and joins them all before anything
// downstream runs. A panic or error inside one strategy is recorded as a
// diagnostic and contributes an empty result set; the run continues.
type Engine struct {
	strategies []Strategy
	timeout    time.Duration
}

type EngineOption func(*Engine)

func WithStrategyTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func NewEngine(strategies []Strategy, opts ...EngineOption) *Engine {
	e := &Engine{
		strategies: strategies,
		timeout:    defaultStrategyTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every strategy concurrently and returns the result lists in
// strategy declaration order, so downstream metadata merges stay
// deterministic regardless of completion order.
func (e *Engine) Run(ctx context.Context, cs *types.ChangeSet, reg *registry.Registry) ([][]types.StrategyResult, []types.Diagnostic) {
	resultSets := make([][]types.StrategyResult, len(e.strategies))
	failures := make([]error, len(e.strategies))

	var wg sync.WaitGroup
	for i, strat := range e.strategies {
		wg.Add(1)
		go func(idx int, strat Strategy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[idx] = fmt.Errorf("panic: %v", r)
					resultSets[idx] = nil
				}
			}()

			stratCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			results, err := strat.Detect(stratCtx, cs, reg)
			if err != nil {
				failures[idx] = err
				return
			}
			resultSets[idx] = normalize(results, strat.Name())
		}(i, strat)
	}
	wg.Wait()

	var diags []types.Diagnostic
	for i, err := range failures {
		if err != nil {
			diags = append(diags, types.Diagnostic{
				Stage:   "strategy",
				Subject: e.strategies[i].Name(),
				Message: err.Error(),
			})
		}
	}
	return resultSets, diags
}

// normalize enforces the result invariants the aggregator relies on:
// confidence in [0,1], strategy id set, no nil sets.
func normalize(results []types.StrategyResult, strategyID string) []types.StrategyResult {
	for i := range results {
		results[i].Confidence = clamp(results[i].Confidence)
		if results[i].StrategyID == "" {
			results[i].StrategyID = strategyID
		}
		if results[i].EvidenceFiles == nil {
			results[i].EvidenceFiles = types.StringSet{}
		}
		if results[i].TestFileHints == nil {
			results[i].TestFileHints = types.StringSet{}
		}
	}
	return results
}
