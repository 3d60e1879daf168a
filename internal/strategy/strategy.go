package strategy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/types"
)

// Strategy is one independent detector: it reads the shared immutable change
// set and feature registry and emits zero or more impact claims. Strategies
// hold no shared mutable state and may run concurrently.
type Strategy interface {
	Name() string
	Detect(ctx context.Context, cs *types.ChangeSet, reg *registry.Registry) ([]types.StrategyResult, error)
}

// ContentSource fetches file content at a revision, for strategies that scan
// source text.
type ContentSource interface {
	FileContentAt(ctx context.Context, commit, path string) ([]byte, error)
}

const (
	IDFolder     = "folder"
	IDFile       = "file"
	IDAnnotation = "annotation"
	IDSymbol     = "symbol"
)

// ErrUnknownStrategy is returned by Build for an id outside the closed set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Config carries the per-run collaborators a strategy may need.
type Config struct {
	Weight         float64
	AvailableTests []string
	Source         ContentSource
}

// factories is the closed registration table. Strategies are a fixed set of
// variants, not a runtime plugin surface.
var factories = map[string]func(Config) Strategy{
	IDFolder:     func(c Config) Strategy { return &FolderStrategy{weight: c.Weight, tests: c.AvailableTests} },
	IDFile:       func(c Config) Strategy { return &FileStrategy{weight: c.Weight, tests: c.AvailableTests} },
	IDAnnotation: func(c Config) Strategy { return &AnnotationStrategy{weight: c.Weight, tests: c.AvailableTests, source: c.Source} },
	IDSymbol:     func(c Config) Strategy { return &SymbolStrategy{weight: c.Weight, tests: c.AvailableTests} },
}

// DefaultIDs returns every strategy id in canonical execution order.
func DefaultIDs() []string {
	return []string{IDFolder, IDFile, IDAnnotation, IDSymbol}
}

// Build instantiates the requested strategies in the given order. Missing
// weights default to 1.0.
func Build(ids []string, weights map[string]float64, tests []string, source ContentSource) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(ids))
	for _, id := range ids {
		factory, ok := factories[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, id)
		}
		weight, ok := weights[id]
		if !ok {
			weight = 1.0
		}
		strategies = append(strategies, factory(Config{
			Weight:         weight,
			AvailableTests: tests,
			Source:         source,
		}))
	}
	return strategies, nil
}

func clamp(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// containsName reports whether the test path's base name contains the
// needle, case-insensitively.
func containsName(testPath, needle string) bool {
	if needle == "" {
		return false
	}
	base := strings.ToLower(filepath.Base(testPath))
	return strings.Contains(base, strings.ToLower(needle))
}

// matchGlobs returns the corpus paths matching any of the glob patterns.
func matchGlobs(tests []string, patterns []string) types.StringSet {
	matched := types.StringSet{}
	for _, test := range tests {
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(pattern, test); err == nil && ok {
				matched.Add(test)
				break
			}
		}
	}
	return matched
}

// firstWord extracts the leading camel-case or snake-case word segment of a
// symbol name, lower-cased: "PaymentProcessor" and "payment_gateway" both
// yield "payment".
func firstWord(symbol string) string {
	if symbol == "" {
		return ""
	}
	if head, _, ok := strings.Cut(symbol, "_"); ok {
		return strings.ToLower(head)
	}
	runes := []rune(symbol)
	end := len(runes)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) {
			end = i
			break
		}
	}
	return strings.ToLower(string(runes[:end]))
}

// baseGuess derives a feature-name guess from a file path: the base name
// without its extension, lower-cased.
func baseGuess(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
