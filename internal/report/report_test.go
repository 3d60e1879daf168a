package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/agusespa/testscope/internal/types"
)

func reportFixture() *types.SelectionReport {
	return &types.SelectionReport{
		BaseRevision: "0123456789abcdef",
		HeadRevision: "fedcba9876543210",
		Impacted: []types.ImpactedFeature{
			{
				FeatureName:            "payments",
				Confidence:             0.9,
				ImpactedFiles:          types.NewStringSet("src/pay.js"),
				ContributingStrategies: types.NewStringSet("file", "folder"),
			},
		},
		Entries: []types.SelectionEntry{
			{TestPath: "tests/pay.spec.js", SourceFeature: "payments", Confidence: 0.9, Rationale: "test hint from strategies [file,folder]"},
		},
		Reasons: []types.FeatureReason{{Feature: "payments", TestsSelected: 1, Confidence: 0.9}},
		Summary: types.Summary{TotalAvailable: 4, TotalSelected: 1, ReductionPercentage: 75},
	}
}

func TestJSON_RoundTrips(t *testing.T) {
	data, err := JSON(reportFixture())
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}

	var decoded types.SelectionReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.BaseRevision != "0123456789abcdef" {
		t.Errorf("base revision = %q", decoded.BaseRevision)
	}
	if len(decoded.Impacted) != 1 || !decoded.Impacted[0].ContributingStrategies.Has("file") {
		t.Errorf("impacted = %+v", decoded.Impacted)
	}
}

func TestPathList(t *testing.T) {
	rep := reportFixture()
	rep.Entries = append(rep.Entries, types.SelectionEntry{TestPath: "tests/refund.spec.js"})

	got := PathList(rep)
	want := "tests/pay.spec.js\ntests/refund.spec.js\n"
	if got != want {
		t.Errorf("PathList = %q, want %q", got, want)
	}
}

func TestText(t *testing.T) {
	out := Text(reportFixture())

	if !strings.Contains(out, "01234567..fedcba98") {
		t.Errorf("short revisions missing: %s", out)
	}
	if !strings.Contains(out, "payments") || !strings.Contains(out, "strategies [file,folder]") {
		t.Errorf("feature line missing: %s", out)
	}
	if !strings.Contains(out, "1 of 4 tests selected (75% reduction)") {
		t.Errorf("summary line missing: %s", out)
	}
}

func TestText_NoImpact(t *testing.T) {
	rep := &types.SelectionReport{BaseRevision: "aaa", HeadRevision: "bbb"}

	out := Text(rep)
	if !strings.Contains(out, "No impacted features detected.") {
		t.Errorf("empty-impact notice missing: %s", out)
	}
}
