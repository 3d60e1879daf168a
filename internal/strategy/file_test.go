package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/types"
)

func mustRegistry(t *testing.T, defs ...types.FeatureDefinition) *registry.Registry {
	t.Helper()
	reg, err := registry.New(defs)
	require.NoError(t, err)
	return reg
}

func TestFileStrategy_Detect(t *testing.T) {
	reg := mustRegistry(t, types.FeatureDefinition{
		Name:             "authentication",
		SourcePatterns:   []string{"src/auth/**"},
		TestPatterns:     []string{"tests/auth/**"},
		StaticConfidence: 1.0,
	})

	strat := &FileStrategy{
		weight: 1.0,
		tests:  []string{"tests/auth/login.spec.js", "tests/payments/pay.spec.js"},
	}

	results, err := strat.Detect(context.Background(), changeSetOf("src/auth/login.js"), reg)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, "authentication", result.FeatureName)
	assert.Equal(t, 1.0, result.Confidence)
	assert.True(t, result.EvidenceFiles.Has("src/auth/login.js"))
	assert.Equal(t, []string{"tests/auth/login.spec.js"}, result.TestFileHints.Values())
}

func TestFileStrategy_ConfidenceUsesStaticScore(t *testing.T) {
	reg := mustRegistry(t, types.FeatureDefinition{
		Name:             "search",
		SourcePatterns:   []string{"src/search/**"},
		StaticConfidence: 0.6,
	})

	strat := &FileStrategy{weight: 0.5}

	results, err := strat.Detect(context.Background(), changeSetOf("src/search/index.ts"), reg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.3, results[0].Confidence, 1e-9)
}

func TestFileStrategy_NoMatchNoResult(t *testing.T) {
	reg := mustRegistry(t, types.FeatureDefinition{
		Name:             "authentication",
		SourcePatterns:   []string{"src/auth/**"},
		StaticConfidence: 1.0,
	})

	strat := &FileStrategy{weight: 1.0}

	results, err := strat.Detect(context.Background(), changeSetOf("docs/readme.md"), reg)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFileStrategy_MetadataComesFromDefinition(t *testing.T) {
	reg := mustRegistry(t, types.FeatureDefinition{
		Name:             "billing",
		SourcePatterns:   []string{"src/billing/**"},
		StaticConfidence: 0.8,
		Metadata:         map[string]string{"owner": "payments-team"},
	})

	strat := &FileStrategy{weight: 1.0}

	results, err := strat.Detect(context.Background(), changeSetOf("src/billing/invoice.go"), reg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "payments-team", results[0].Metadata["owner"])
}
