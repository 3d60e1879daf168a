package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/agusespa/testscope/internal/types"
)

type fakeSource struct {
	files map[string]string
}

func (f *fakeSource) FileContentAt(ctx context.Context, commit, path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(content), nil
}

func TestScanMarkers(t *testing.T) {
	content := `
// @feature: payments
# @impacts checkout
 * Feature: Search
function noop() {}
`
	names := scanMarkers(content)
	want := map[string]bool{"payments": true, "checkout": true, "search": true}
	if len(names) != len(want) {
		t.Fatalf("scanMarkers = %v, want %d names", names, len(want))
	}
	for _, name := range names {
		if !want[name] {
			t.Errorf("unexpected marker name %q", name)
		}
	}
}

func TestAnnotationStrategy_Detect(t *testing.T) {
	source := &fakeSource{files: map[string]string{
		"src/pay.js": "// @feature: payments\nexport function charge() {}",
	}}
	strat := &AnnotationStrategy{
		weight: 1.0,
		tests:  []string{"tests/payments.spec.js", "tests/auth.spec.js"},
		source: source,
	}

	results, err := strat.Detect(context.Background(), changeSetOf("src/pay.js"), nil)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	result := results[0]
	if result.FeatureName != "payments" {
		t.Errorf("feature = %q", result.FeatureName)
	}
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", result.Confidence)
	}
	if !result.TestFileHints.Has("tests/payments.spec.js") {
		t.Errorf("missing convention hint, got %v", result.TestFileHints.Values())
	}
	if result.TestFileHints.Has("tests/auth.spec.js") {
		t.Error("unrelated test must not be hinted")
	}
}

func TestAnnotationStrategy_SkipsDeletedFiles(t *testing.T) {
	source := &fakeSource{files: map[string]string{
		"src/gone.js": "// @feature: payments",
	}}
	strat := &AnnotationStrategy{weight: 1.0, source: source}

	cs := changeSetOf("src/gone.js")
	cs.Records[0].Type = types.Deleted

	results, err := strat.Detect(context.Background(), cs, nil)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("deleted files must not contribute, got %v", results)
	}
}

func TestAnnotationStrategy_UnreadableFileContributesNothing(t *testing.T) {
	strat := &AnnotationStrategy{weight: 1.0, source: &fakeSource{files: map[string]string{}}}

	results, err := strat.Detect(context.Background(), changeSetOf("src/missing.js"), nil)
	if err != nil {
		t.Fatalf("unreadable file must not fail the strategy: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
