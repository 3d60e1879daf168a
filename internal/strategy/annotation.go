package strategy

import (
	"context"
	"regexp"
	"strings"

	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/types"
)

// annotationConfidence is high because the marker is an explicit in-source
// declaration of the feature.
const annotationConfidence = 0.9

// markerPatterns is the fixed set of recognized in-source feature markers.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@feature[:\s]+([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`@impacts[:\s]+([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?m)^\s*(?://|#|\*|--)\s*[Ff]eature:\s*([A-Za-z0-9_-]+)`),
}

// AnnotationStrategy scans changed file content for explicit feature
// markers. Deleted and binary files are skipped; an unreadable file simply
// contributes nothing.
type AnnotationStrategy struct {
	weight float64
	tests  []string
	source ContentSource
}

func (s *AnnotationStrategy) Name() string {
	return IDAnnotation
}

func (s *AnnotationStrategy) Detect(ctx context.Context, cs *types.ChangeSet, reg *registry.Registry) ([]types.StrategyResult, error) {
	byFeature := make(map[string]*types.StrategyResult)
	var order []string

	for _, record := range cs.Records {
		if record.Type == types.Deleted || record.Binary {
			continue
		}
		content, err := s.source.FileContentAt(ctx, cs.HeadRevision, record.Path)
		if err != nil {
			continue
		}

		for _, name := range scanMarkers(string(content)) {
			result, ok := byFeature[name]
			if !ok {
				result = &types.StrategyResult{
					FeatureName:   name,
					Confidence:    clamp(s.weight * annotationConfidence),
					EvidenceFiles: types.StringSet{},
					TestFileHints: types.StringSet{},
					StrategyID:    IDAnnotation,
				}
				byFeature[name] = result
				order = append(order, name)
			}
			result.EvidenceFiles.Add(record.Path)
			result.TestFileHints = result.TestFileHints.Union(matchGlobs(s.tests, conventionGlobs(name)))
		}
	}

	results := make([]types.StrategyResult, 0, len(order))
	for _, name := range order {
		results = append(results, *byFeature[name])
	}
	return results, nil
}

func scanMarkers(content string) []string {
	seen := types.StringSet{}
	var names []string
	for _, pattern := range markerPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			name := strings.ToLower(match[1])
			if !seen.Has(name) {
				seen.Add(name)
				names = append(names, name)
			}
		}
	}
	return names
}

// conventionGlobs are the naming-convention test globs keyed by a feature
// name.
func conventionGlobs(name string) []string {
	return []string{
		"**/" + name + "*.test.*",
		"**/" + name + "*.spec.*",
		"**/test_" + name + "*.py",
		"**/" + name + "*_test.go",
		"**/__tests__/**/" + name + "*",
	}
}
