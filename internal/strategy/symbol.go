package strategy

import (
	"context"
	"sort"
	"strings"

	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/types"
)

// symbolDiscount reflects that a camel-case prefix is a weaker signal than
// an explicit pattern or annotation.
const symbolDiscount = 0.7

// SymbolStrategy guesses feature names from the changed function and class
// names plus the file's base name, then resolves tests by naming convention
// against both the raw symbol and the guess.
type SymbolStrategy struct {
	weight float64
	tests  []string
}

func (s *SymbolStrategy) Name() string {
	return IDSymbol
}

func (s *SymbolStrategy) Detect(ctx context.Context, cs *types.ChangeSet, reg *registry.Registry) ([]types.StrategyResult, error) {
	byFeature := make(map[string]*types.StrategyResult)
	symbolsByFeature := make(map[string]types.StringSet)
	var order []string

	claim := func(guess, path string, symbol string) {
		if guess == "" {
			return
		}
		result, ok := byFeature[guess]
		if !ok {
			result = &types.StrategyResult{
				FeatureName:   guess,
				Confidence:    clamp(s.weight * symbolDiscount),
				EvidenceFiles: types.StringSet{},
				TestFileHints: types.StringSet{},
				StrategyID:    IDSymbol,
			}
			byFeature[guess] = result
			symbolsByFeature[guess] = types.StringSet{}
			order = append(order, guess)
		}
		result.EvidenceFiles.Add(path)
		for _, hint := range s.conventionTests(guess, symbol) {
			result.TestFileHints.Add(hint)
		}
		if symbol != "" {
			symbolsByFeature[guess].Add(symbol)
		}
	}

	for _, record := range cs.Records {
		symbols := record.ChangedFuncs.Union(record.ChangedClasses)
		for _, symbol := range symbols.Values() {
			claim(firstWord(symbol), record.Path, symbol)
		}
		if len(symbols) > 0 {
			claim(baseGuess(record.Path), record.Path, "")
		}
	}

	results := make([]types.StrategyResult, 0, len(order))
	for _, guess := range order {
		result := *byFeature[guess]
		if symbols := symbolsByFeature[guess]; len(symbols) > 0 {
			result.Metadata = map[string]string{"symbols": strings.Join(symbols.Values(), ",")}
		}
		results = append(results, result)
	}
	return results, nil
}

// conventionTests matches corpus test file names against the guess and the
// originating symbol.
func (s *SymbolStrategy) conventionTests(guess, symbol string) []string {
	matched := types.StringSet{}
	for _, test := range s.tests {
		if containsName(test, guess) || (symbol != "" && containsName(test, symbol)) {
			matched.Add(test)
		}
	}
	hints := matched.Values()
	sort.Strings(hints)
	return hints
}
