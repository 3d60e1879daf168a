package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agusespa/testscope/internal/types"
)

func TestMerge_SameFeatureFromTwoStrategies(t *testing.T) {
	resultSets := [][]types.StrategyResult{
		{
			{
				FeatureName:   "payments",
				Confidence:    0.6,
				EvidenceFiles: types.NewStringSet("a.js"),
				TestFileHints: types.NewStringSet("tests/pay.spec.js"),
				StrategyID:    "folder",
			},
		},
		{
			{
				FeatureName:   "payments",
				Confidence:    0.9,
				EvidenceFiles: types.NewStringSet("b.js"),
				TestFileHints: types.StringSet{},
				StrategyID:    "file",
			},
		},
	}

	impacted := Merge(resultSets)
	if len(impacted) != 1 {
		t.Fatalf("expected one merged feature, got %d", len(impacted))
	}

	want := types.ImpactedFeature{
		FeatureName:            "payments",
		Confidence:             0.9,
		ImpactedFiles:          types.NewStringSet("a.js", "b.js"),
		TestFileHints:          types.NewStringSet("tests/pay.spec.js"),
		ContributingStrategies: types.NewStringSet("folder", "file"),
	}
	if diff := cmp.Diff(want, impacted[0]); diff != "" {
		t.Errorf("merged feature mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_SortsByConfidenceDescending(t *testing.T) {
	resultSets := [][]types.StrategyResult{
		{
			{FeatureName: "search", Confidence: 0.4, EvidenceFiles: types.StringSet{}, TestFileHints: types.StringSet{}, StrategyID: "folder"},
			{FeatureName: "payments", Confidence: 0.9, EvidenceFiles: types.StringSet{}, TestFileHints: types.StringSet{}, StrategyID: "folder"},
			{FeatureName: "authentication", Confidence: 0.7, EvidenceFiles: types.StringSet{}, TestFileHints: types.StringSet{}, StrategyID: "folder"},
		},
	}

	impacted := Merge(resultSets)
	var names []string
	for _, feature := range impacted {
		names = append(names, feature.FeatureName)
	}
	want := []string{"payments", "authentication", "search"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_TiesKeepFirstSeenOrder(t *testing.T) {
	resultSets := [][]types.StrategyResult{
		{
			{FeatureName: "b-feature", Confidence: 0.5, EvidenceFiles: types.StringSet{}, TestFileHints: types.StringSet{}, StrategyID: "folder"},
			{FeatureName: "a-feature", Confidence: 0.5, EvidenceFiles: types.StringSet{}, TestFileHints: types.StringSet{}, StrategyID: "folder"},
		},
	}

	impacted := Merge(resultSets)
	if impacted[0].FeatureName != "b-feature" || impacted[1].FeatureName != "a-feature" {
		t.Errorf("ties must keep first-seen order, got %q then %q",
			impacted[0].FeatureName, impacted[1].FeatureName)
	}
}

func TestMerge_MetadataLaterSetWins(t *testing.T) {
	resultSets := [][]types.StrategyResult{
		{
			{
				FeatureName:   "billing",
				Confidence:    0.8,
				EvidenceFiles: types.StringSet{},
				TestFileHints: types.StringSet{},
				StrategyID:    "file",
				Metadata:      map[string]string{"owner": "payments-team", "tier": "1"},
			},
		},
		{
			{
				FeatureName:   "billing",
				Confidence:    0.7,
				EvidenceFiles: types.StringSet{},
				TestFileHints: types.StringSet{},
				StrategyID:    "symbol",
				Metadata:      map[string]string{"owner": "billing-team"},
			},
		},
	}

	impacted := Merge(resultSets)
	want := map[string]string{"owner": "billing-team", "tier": "1"}
	if diff := cmp.Diff(want, impacted[0].Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if impacted[0].Confidence != 0.8 {
		t.Errorf("confidence must stay at the max, got %v", impacted[0].Confidence)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	resultSets := [][]types.StrategyResult{
		{
			{
				FeatureName:   "search",
				Confidence:    0.6,
				EvidenceFiles: types.NewStringSet("src/search/index.ts"),
				TestFileHints: types.NewStringSet("tests/search.spec.ts"),
				StrategyID:    "folder",
			},
		},
	}

	first := Merge(resultSets)
	second := Merge(resultSets)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("merge must be deterministic (-first +second):\n%s", diff)
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Errorf("expected empty output, got %v", got)
	}
	if got := Merge([][]types.StrategyResult{nil, {}}); len(got) != 0 {
		t.Errorf("expected empty output for empty sets, got %v", got)
	}
}

func TestMerge_DoesNotAliasInputSets(t *testing.T) {
	evidence := types.NewStringSet("a.js")
	resultSets := [][]types.StrategyResult{
		{{FeatureName: "x", Confidence: 0.5, EvidenceFiles: evidence, TestFileHints: types.StringSet{}, StrategyID: "folder"}},
	}

	impacted := Merge(resultSets)
	impacted[0].ImpactedFiles.Add("b.js")

	if evidence.Has("b.js") {
		t.Error("merged output must not share set storage with strategy results")
	}
}
