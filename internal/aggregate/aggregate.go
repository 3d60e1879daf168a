package aggregate

import (
	"sort"

	"github.com/agusespa/testscope/internal/types"
)

// Merge folds all strategy result lists into one ranked list of impacted
// features, one entry per distinct feature name. The fold consumes result
// sets in the order given (strategy declaration order), which pins metadata
// merge precedence: a later strategy's value wins on key collision.
//
// Confidence is the max over contributing results, file and hint sets are
// unions, and the output is sorted by confidence descending with ties
// keeping first-seen order. The fold performs no I/O and does not fail.
func Merge(resultSets [][]types.StrategyResult) []types.ImpactedFeature {
	merged := make(map[string]*types.ImpactedFeature)
	var order []string

	for _, results := range resultSets {
		for _, result := range results {
			existing, ok := merged[result.FeatureName]
			if !ok {
				merged[result.FeatureName] = seed(result)
				order = append(order, result.FeatureName)
				continue
			}
			if result.Confidence > existing.Confidence {
				existing.Confidence = result.Confidence
			}
			existing.ImpactedFiles = existing.ImpactedFiles.Union(result.EvidenceFiles)
			existing.TestFileHints = existing.TestFileHints.Union(result.TestFileHints)
			existing.ContributingStrategies.Add(result.StrategyID)
			existing.Metadata = mergeMetadata(existing.Metadata, result.Metadata)
		}
	}

	impacted := make([]types.ImpactedFeature, 0, len(order))
	for _, name := range order {
		impacted = append(impacted, *merged[name])
	}

	sort.SliceStable(impacted, func(i, j int) bool {
		return impacted[i].Confidence > impacted[j].Confidence
	})
	return impacted
}

func seed(result types.StrategyResult) *types.ImpactedFeature {
	return &types.ImpactedFeature{
		FeatureName:            result.FeatureName,
		Confidence:             result.Confidence,
		ImpactedFiles:          types.StringSet{}.Union(result.EvidenceFiles),
		TestFileHints:          types.StringSet{}.Union(result.TestFileHints),
		ContributingStrategies: types.NewStringSet(result.StrategyID),
		Metadata:               mergeMetadata(nil, result.Metadata),
	}
}

// mergeMetadata shallow-merges into a fresh map; incoming overwrites on key
// collision.
func mergeMetadata(existing, incoming map[string]string) map[string]string {
	if len(existing) == 0 && len(incoming) == 0 {
		return nil
	}
	out := make(map[string]string, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}
