package strategy

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/types"
)

// FileStrategy matches changed file paths against each feature's source
// globs and resolves the feature's test globs against the corpus. It is the
// only strategy whose confidence carries the feature's own static score.
type FileStrategy struct {
	weight float64
	tests  []string
}

func (s *FileStrategy) Name() string {
	return IDFile
}

func (s *FileStrategy) Detect(ctx context.Context, cs *types.ChangeSet, reg *registry.Registry) ([]types.StrategyResult, error) {
	var results []types.StrategyResult

	for _, def := range reg.All() {
		evidence := types.StringSet{}
		for _, record := range cs.Records {
			if matchesAny(def.SourcePatterns, record.Path) {
				evidence.Add(record.Path)
			}
		}
		if len(evidence) == 0 {
			continue
		}

		results = append(results, types.StrategyResult{
			FeatureName:   def.Name,
			Confidence:    clamp(s.weight * def.StaticConfidence),
			EvidenceFiles: evidence,
			TestFileHints: matchGlobs(s.tests, def.TestPatterns),
			StrategyID:    IDFile,
			Metadata:      copyMetadata(def.Metadata),
		})
	}
	return results, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func copyMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
