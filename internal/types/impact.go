package types

// FeatureDefinition maps a logical product feature to the source and test
// globs that identify it. Definitions come from configuration and are
// read-only for the lifetime of a run.
type FeatureDefinition struct {
	Name             string            `json:"name" yaml:"name"`
	SourcePatterns   []string          `json:"source_patterns" yaml:"source_patterns"`
	TestPatterns     []string          `json:"test_patterns" yaml:"test_patterns"`
	StaticConfidence float64           `json:"confidence" yaml:"confidence"`
	Metadata         map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// StrategyResult is one detector's claim that a feature was impacted.
// Confidence is a [0,1] heuristic score, not a calibrated probability.
type StrategyResult struct {
	FeatureName   string
	Confidence    float64
	EvidenceFiles StringSet
	TestFileHints StringSet
	StrategyID    string
	Metadata      map[string]string
}

// ImpactedFeature is the merged claim for one feature after all strategies
// have been reconciled. Confidence is the max over contributing results,
// never an average.
type ImpactedFeature struct {
	FeatureName            string            `json:"feature"`
	Confidence             float64           `json:"confidence"`
	ImpactedFiles          StringSet         `json:"impacted_files"`
	TestFileHints          StringSet         `json:"test_file_hints,omitempty"`
	ContributingStrategies StringSet         `json:"strategies"`
	Metadata               map[string]string `json:"metadata,omitempty"`
}

// SelectionEntry is one concrete test file chosen for execution, with
// provenance back to the feature that claimed it.
type SelectionEntry struct {
	TestPath      string  `json:"test_path"`
	SourceFeature string  `json:"feature"`
	Confidence    float64 `json:"confidence"`
	Rationale     string  `json:"rationale"`
}

// FeatureReason summarizes why a feature contributed to the selection.
type FeatureReason struct {
	Feature       string  `json:"feature"`
	TestsSelected int     `json:"tests_selected"`
	Confidence    float64 `json:"confidence"`
}

// Summary holds the derived selection statistics.
type Summary struct {
	TotalAvailable      int `json:"total_available"`
	TotalSelected       int `json:"total_selected"`
	ReductionPercentage int `json:"reduction_percentage"`
}

// Diagnostic records a recoverable failure that was absorbed by the pipeline
// instead of aborting the run.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// SelectionReport is the canonical in-memory result of one pipeline run.
// JSON, path-list and text renderings are pure projections of it.
type SelectionReport struct {
	BaseRevision string            `json:"base_revision"`
	HeadRevision string            `json:"head_revision"`
	Impacted     []ImpactedFeature `json:"impacted_features"`
	Entries      []SelectionEntry  `json:"selected_tests"`
	Reasons      []FeatureReason   `json:"reasons"`
	Summary      Summary           `json:"summary"`
	Diagnostics  []Diagnostic      `json:"diagnostics,omitempty"`
}
