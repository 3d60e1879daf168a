package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agusespa/testscope/internal/types"
)

// JSON renders the full report as indented JSON.
func JSON(rep *types.SelectionReport) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// PathList renders only the selected test paths, one per line, suitable for
// piping into a test runner.
func PathList(rep *types.SelectionReport) string {
	var b strings.Builder
	for _, entry := range rep.Entries {
		b.WriteString(entry.TestPath)
		b.WriteByte('\n')
	}
	return b.String()
}

// Text renders a human-readable summary.
func Text(rep *types.SelectionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Impact analysis %s..%s\n\n", short(rep.BaseRevision), short(rep.HeadRevision))

	if len(rep.Impacted) == 0 {
		b.WriteString("No impacted features detected.\n")
	}
	for _, feature := range rep.Impacted {
		fmt.Fprintf(&b, "  %-24s confidence %.2f  strategies [%s]\n",
			feature.FeatureName, feature.Confidence,
			strings.Join(feature.ContributingStrategies.Values(), ","))
	}

	if len(rep.Entries) > 0 {
		b.WriteString("\nSelected tests:\n")
		for _, entry := range rep.Entries {
			fmt.Fprintf(&b, "  ✓ %s  (%s, %.2f)\n", entry.TestPath, entry.SourceFeature, entry.Confidence)
		}
	}

	fmt.Fprintf(&b, "\n%d of %d tests selected (%d%% reduction)\n",
		rep.Summary.TotalSelected, rep.Summary.TotalAvailable, rep.Summary.ReductionPercentage)

	if len(rep.Diagnostics) > 0 {
		fmt.Fprintf(&b, "%d recoverable failure(s) absorbed; run with --log-level debug for details\n", len(rep.Diagnostics))
	}
	return b.String()
}

func short(revision string) string {
	if len(revision) > 8 {
		return revision[:8]
	}
	return revision
}
