package extractor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agusespa/testscope/internal/parser"
	"github.com/agusespa/testscope/internal/types"
)

const (
	defaultWorkers     = 4
	defaultFileTimeout = 10 * time.Second
)

// ContentSource fetches file content at a specific revision.
type ContentSource interface {
	FileContentAt(ctx context.Context, commit, path string) ([]byte, error)
}

// Extractor enriches change records with the symbol names touched by the
// diff. Read and parse failures degrade a single file to empty symbol sets;
// they never abort the analysis.
type Extractor struct {
	parsers     *parser.Registry
	source      ContentSource
	workers     int
	fileTimeout time.Duration
}

type Option func(*Extractor)

func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithFileTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.fileTimeout = d
		}
	}
}

func New(parsers *parser.Registry, source ContentSource, opts ...Option) *Extractor {
	e := &Extractor{
		parsers:     parsers,
		source:      source,
		workers:     defaultWorkers,
		fileTimeout: defaultFileTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns a copy of the change set whose records carry changed
// function, class and import names. Deleted and binary files are skipped, as
// are files with no registered parser. Per-file work runs on a bounded pool.
func (e *Extractor) Enrich(ctx context.Context, cs *types.ChangeSet) (*types.ChangeSet, []types.Diagnostic) {
	enriched := *cs
	enriched.Records = make([]types.ChangeRecord, len(cs.Records))
	copy(enriched.Records, cs.Records)

	failures := make([]types.Diagnostic, len(cs.Records))
	failed := make([]bool, len(cs.Records))

	var g errgroup.Group
	g.SetLimit(e.workers)

	for i := range enriched.Records {
		record := &enriched.Records[i]
		if record.Type == types.Deleted || record.Binary || !e.parsers.Supported(record.Path) {
			continue
		}

		idx := i
		g.Go(func() error {
			if err := e.enrichRecord(ctx, cs.HeadRevision, record); err != nil {
				failures[idx] = types.Diagnostic{
					Stage:   "enrich",
					Subject: record.Path,
					Message: err.Error(),
				}
				failed[idx] = true
			}
			return nil
		})
	}

	// Errors are absorbed per file, so Wait only synchronizes.
	_ = g.Wait()

	var diags []types.Diagnostic
	for i, ok := range failed {
		if ok {
			diags = append(diags, failures[i])
		}
	}
	return &enriched, diags
}

func (e *Extractor) enrichRecord(ctx context.Context, head string, record *types.ChangeRecord) error {
	fileCtx, cancel := context.WithTimeout(ctx, e.fileTimeout)
	defer cancel()

	content, err := e.source.FileContentAt(fileCtx, head, record.Path)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	lp := e.parsers.ParserFor(record.Path)
	symbols, err := lp.ParseFile(content)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	for _, sym := range symbols {
		if !touchesChange(sym, record.ChangedRanges) {
			continue
		}
		switch sym.Kind {
		case types.SymbolFunction:
			record.ChangedFuncs.Add(sym.Name)
		case types.SymbolClass:
			record.ChangedClasses.Add(sym.Name)
		case types.SymbolImport:
			record.ChangedImports.Add(sym.Name)
		}
	}
	return nil
}

// touchesChange reports whether the symbol's declaration span overlaps any
// changed line range. Records without ranges (added files, unparseable
// patches) keep every symbol.
func touchesChange(sym types.Symbol, ranges []types.LineRange) bool {
	if len(ranges) == 0 {
		return true
	}
	for _, r := range ranges {
		if sym.StartLine <= r.Start+r.Count-1 && sym.EndLine >= r.Start {
			return true
		}
	}
	return false
}
