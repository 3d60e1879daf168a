package strategy

import (
	"context"
	"testing"

	"github.com/agusespa/testscope/internal/types"
)

func TestFirstWord(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"PaymentProcessor", "payment"},
		{"processRefund", "process"},
		{"payment_gateway", "payment"},
		{"auth", "auth"},
		{"HTTPServer", "http"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstWord(tt.symbol); got != tt.want {
			t.Errorf("firstWord(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func TestSymbolStrategy_Detect(t *testing.T) {
	strat := &SymbolStrategy{
		weight: 1.0,
		tests: []string{
			"tests/process.spec.js",
			"tests/invoice.spec.js",
			"tests/auth.spec.js",
		},
	}

	cs := changeSetOf("src/billing/invoice.js")
	cs.Records[0].ChangedFuncs = types.NewStringSet("ProcessPayment")

	results, err := strat.Detect(context.Background(), cs, nil)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	byFeature := make(map[string]types.StrategyResult)
	for _, result := range results {
		byFeature[result.FeatureName] = result
	}

	process, ok := byFeature["process"]
	if !ok {
		t.Fatalf("expected guess from symbol prefix, got %v", byFeature)
	}
	if process.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", process.Confidence)
	}
	if !process.TestFileHints.Has("tests/process.spec.js") {
		t.Errorf("missing hint for process, got %v", process.TestFileHints.Values())
	}
	if process.Metadata["symbols"] != "ProcessPayment" {
		t.Errorf("metadata symbols = %q", process.Metadata["symbols"])
	}

	invoice, ok := byFeature["invoice"]
	if !ok {
		t.Fatal("expected guess from file base name")
	}
	if !invoice.TestFileHints.Has("tests/invoice.spec.js") {
		t.Errorf("missing hint for invoice, got %v", invoice.TestFileHints.Values())
	}
}

func TestSymbolStrategy_NoSymbolsNoResults(t *testing.T) {
	strat := &SymbolStrategy{weight: 1.0}

	results, err := strat.Detect(context.Background(), changeSetOf("src/billing/invoice.js"), nil)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("records without symbols must not produce guesses, got %v", results)
	}
}
