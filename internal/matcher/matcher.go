package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/agusespa/testscope/internal/types"
)

// Select turns the ranked impact list into concrete test selections. A test
// path belongs to the first feature (in ranked order) that claims it; claims
// from lower-ranked features on the same path are dropped.
//
// Features carrying explicit hints use them, filtered to paths actually
// present in the corpus. Features without hints fall back to substring
// matching on the feature name, with separators stripped as a second form.
func Select(impacted []types.ImpactedFeature, availableTests []string) ([]types.SelectionEntry, []types.FeatureReason, types.Summary) {
	available := types.NewStringSet(availableTests...)
	claimed := types.StringSet{}

	var entries []types.SelectionEntry
	var reasons []types.FeatureReason

	for _, feature := range impacted {
		var selected []types.SelectionEntry
		if len(feature.TestFileHints) > 0 {
			selected = fromHints(feature, available, claimed)
		} else {
			selected = fromNameMatch(feature, availableTests, claimed)
		}

		entries = append(entries, selected...)
		reasons = append(reasons, types.FeatureReason{
			Feature:       feature.FeatureName,
			TestsSelected: len(selected),
			Confidence:    feature.Confidence,
		})
	}

	summary := types.Summary{
		TotalAvailable:      len(availableTests),
		TotalSelected:       len(entries),
		ReductionPercentage: reduction(len(entries), len(availableTests)),
	}
	return entries, reasons, summary
}

func fromHints(feature types.ImpactedFeature, available, claimed types.StringSet) []types.SelectionEntry {
	var selected []types.SelectionEntry
	for _, hint := range feature.TestFileHints.Values() {
		if !available.Has(hint) || claimed.Has(hint) {
			continue
		}
		claimed.Add(hint)
		selected = append(selected, types.SelectionEntry{
			TestPath:      hint,
			SourceFeature: feature.FeatureName,
			Confidence:    feature.Confidence,
			Rationale: fmt.Sprintf("test hint from strategies [%s]",
				strings.Join(feature.ContributingStrategies.Values(), ",")),
		})
	}
	return selected
}

func fromNameMatch(feature types.ImpactedFeature, availableTests []string, claimed types.StringSet) []types.SelectionEntry {
	name := strings.ToLower(feature.FeatureName)
	stripped := stripSeparators(name)

	var selected []types.SelectionEntry
	for _, test := range availableTests {
		if claimed.Has(test) {
			continue
		}
		lowered := strings.ToLower(test)
		if !strings.Contains(lowered, name) && !strings.Contains(lowered, stripped) {
			continue
		}
		claimed.Add(test)
		selected = append(selected, types.SelectionEntry{
			TestPath:      test,
			SourceFeature: feature.FeatureName,
			Confidence:    feature.Confidence,
			Rationale:     fmt.Sprintf("test name matches feature %q", feature.FeatureName),
		})
	}
	return selected
}

func stripSeparators(name string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(name)
}

func reduction(selected, available int) int {
	if available == 0 {
		return 0
	}
	return int(math.Round((1 - float64(selected)/float64(available)) * 100))
}
