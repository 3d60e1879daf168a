package strategy

import (
	"context"
	"strings"

	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/types"
)

// folderDiscount reflects the lower precision of path-derived feature names.
const folderDiscount = 0.8

// conventionalTestDirs are the directory names searched for tests whose file
// name mentions the candidate feature.
var conventionalTestDirs = []string{"tests/", "test/", "__tests__/", "spec/"}

// FolderStrategy derives candidate feature names from directory structure:
// the segment after a features/ or src/ anchor, or the lower-cased segment
// after components/.
type FolderStrategy struct {
	weight float64
	tests  []string
}

func (s *FolderStrategy) Name() string {
	return IDFolder
}

func (s *FolderStrategy) Detect(ctx context.Context, cs *types.ChangeSet, reg *registry.Registry) ([]types.StrategyResult, error) {
	byFeature := make(map[string]*types.StrategyResult)
	var order []string

	for _, record := range cs.Records {
		for _, candidate := range folderCandidates(record.Path) {
			result, ok := byFeature[candidate]
			if !ok {
				result = &types.StrategyResult{
					FeatureName:   candidate,
					Confidence:    clamp(s.weight * folderDiscount),
					EvidenceFiles: types.StringSet{},
					TestFileHints: types.StringSet{},
					StrategyID:    IDFolder,
				}
				byFeature[candidate] = result
				order = append(order, candidate)
			}
			result.EvidenceFiles.Add(record.Path)
			for _, hint := range s.findConventionalTests(candidate) {
				result.TestFileHints.Add(hint)
			}
		}
	}

	results := make([]types.StrategyResult, 0, len(order))
	for _, name := range order {
		results = append(results, *byFeature[name])
	}
	return results, nil
}

// findConventionalTests returns corpus tests living under a conventional
// test directory whose file name contains the candidate.
func (s *FolderStrategy) findConventionalTests(candidate string) []string {
	var hints []string
	for _, test := range s.tests {
		normalized := strings.ToLower(test)
		inTestDir := false
		for _, dir := range conventionalTestDirs {
			if strings.HasPrefix(normalized, dir) || strings.Contains(normalized, "/"+dir) {
				inTestDir = true
				break
			}
		}
		if inTestDir && containsName(test, candidate) {
			hints = append(hints, test)
		}
	}
	return hints
}

// folderCandidates extracts feature-name candidates from a path. A segment
// that turns out to be the file itself contributes its extension-less base.
func folderCandidates(path string) []string {
	segments := strings.Split(path, "/")
	seen := types.StringSet{}
	var candidates []string

	add := func(candidate string) {
		if candidate == "" || seen.Has(candidate) {
			return
		}
		seen.Add(candidate)
		candidates = append(candidates, candidate)
	}

	for i, segment := range segments[:max(len(segments)-1, 0)] {
		next := segments[i+1]
		switch segment {
		case "features", "src":
			if i+1 == len(segments)-1 {
				next = baseGuess(next)
			}
			add(next)
		case "components":
			if i+1 == len(segments)-1 {
				next = baseGuess(next)
			}
			add(strings.ToLower(next))
		}
	}
	return candidates
}
