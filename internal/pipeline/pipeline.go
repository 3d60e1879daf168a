package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/agusespa/testscope/internal/aggregate"
	"github.com/agusespa/testscope/internal/analyzer"
	"github.com/agusespa/testscope/internal/extractor"
	"github.com/agusespa/testscope/internal/logging"
	"github.com/agusespa/testscope/internal/matcher"
	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/strategy"
	"github.com/agusespa/testscope/internal/types"
)

// Corpus lists the candidate test files on disk.
type Corpus interface {
	ListTestFiles() ([]string, error)
}

// ConfidenceAdvisor may adjust confidences after aggregation. Failures are
// absorbed by the implementation; the pipeline only consumes diagnostics.
type ConfidenceAdvisor interface {
	Adjust(ctx context.Context, impacted []types.ImpactedFeature, cs *types.ChangeSet) ([]types.ImpactedFeature, []types.Diagnostic)
}

// Params wires one pipeline instance. Advisor is optional.
type Params struct {
	Analyzer        *analyzer.Analyzer
	Extractor       *extractor.Extractor
	Registry        *registry.Registry
	Corpus          Corpus
	Source          strategy.ContentSource
	StrategyIDs     []string
	Weights         map[string]float64
	StrategyTimeout time.Duration
	Advisor         ConfidenceAdvisor
}

// Pipeline runs one analysis invocation: revisions in, selection report out.
// All stage collaborators are fixed at construction; Run holds no state
// across invocations.
type Pipeline struct {
	params Params
	log    *slog.Logger
}

func New(params Params) *Pipeline {
	if len(params.StrategyIDs) == 0 {
		params.StrategyIDs = strategy.DefaultIDs()
	}
	return &Pipeline{
		params: params,
		log:    logging.New("pipeline"),
	}
}

// Run executes the full impact mapping flow. Only three failures are fatal:
// an unusable repository or revision, an unknown strategy id, and an
// unreachable test corpus. Everything else degrades to diagnostics on the
// report.
func (p *Pipeline) Run(ctx context.Context, baseRef, headRef string) (*types.SelectionReport, error) {
	cs, err := p.params.Analyzer.Analyze(ctx, baseRef, headRef)
	if err != nil {
		return nil, err
	}
	p.log.Debug("diff analyzed",
		slog.Int("files", len(cs.Records)),
		slog.Int("added", cs.TotalLinesAdded),
		slog.Int("removed", cs.TotalLinesRemoved))

	var diagnostics []types.Diagnostic

	enriched, enrichDiags := p.params.Extractor.Enrich(ctx, cs)
	diagnostics = append(diagnostics, enrichDiags...)

	tests, err := p.params.Corpus.ListTestFiles()
	if err != nil {
		return nil, err
	}

	strategies, err := strategy.Build(p.params.StrategyIDs, p.params.Weights, tests, p.params.Source)
	if err != nil {
		return nil, err
	}

	engine := strategy.NewEngine(strategies, strategy.WithStrategyTimeout(p.params.StrategyTimeout))
	resultSets, strategyDiags := engine.Run(ctx, enriched, p.params.Registry)
	diagnostics = append(diagnostics, strategyDiags...)

	impacted := aggregate.Merge(resultSets)
	p.log.Debug("aggregated", slog.Int("features", len(impacted)))

	if p.params.Advisor != nil {
		var advisorDiags []types.Diagnostic
		impacted, advisorDiags = p.params.Advisor.Adjust(ctx, impacted, enriched)
		diagnostics = append(diagnostics, advisorDiags...)
	}

	entries, reasons, summary := matcher.Select(impacted, tests)

	for _, diag := range diagnostics {
		p.log.Warn("recoverable failure",
			slog.String("stage", diag.Stage),
			slog.String("subject", diag.Subject),
			slog.String("error", diag.Message))
	}

	return &types.SelectionReport{
		BaseRevision: enriched.BaseRevision,
		HeadRevision: enriched.HeadRevision,
		Impacted:     impacted,
		Entries:      entries,
		Reasons:      reasons,
		Summary:      summary,
		Diagnostics:  diagnostics,
	}, nil
}
