package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agusespa/testscope/internal/llm"
	"github.com/agusespa/testscope/internal/types"
)

const defaultTimeout = 30 * time.Second

// Advisor is an optional post-hoc collaborator that may adjust the
// confidence of already-ranked features. Any failure — transport, timeout,
// malformed reply — is absorbed: the ranked list is returned unchanged and a
// diagnostic is recorded. The advisor never adds or removes features.
type Advisor struct {
	provider llm.Provider
	timeout  time.Duration
}

func New(provider llm.Provider, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Advisor{provider: provider, timeout: timeout}
}

type adjustment struct {
	Feature    string  `json:"feature"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

type advisorReply struct {
	Adjustments []adjustment `json:"adjustments"`
}

// Adjust asks the provider to review the ranked features and applies any
// per-feature confidence overrides it returns, clamped to [0,1]. The list is
// re-sorted afterwards with the stable tie rule preserved.
func (a *Advisor) Adjust(ctx context.Context, impacted []types.ImpactedFeature, cs *types.ChangeSet) ([]types.ImpactedFeature, []types.Diagnostic) {
	if len(impacted) == 0 {
		return impacted, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reply, err := a.provider.Generate(callCtx, buildPrompt(impacted, cs))
	if err != nil {
		return impacted, []types.Diagnostic{{
			Stage:   "advisor",
			Message: err.Error(),
		}}
	}

	adjustments, err := parseReply(reply)
	if err != nil {
		return impacted, []types.Diagnostic{{
			Stage:   "advisor",
			Message: fmt.Sprintf("unusable advisor reply: %v", err),
		}}
	}

	adjusted := make([]types.ImpactedFeature, len(impacted))
	copy(adjusted, impacted)

	byName := make(map[string]int, len(adjusted))
	for i, feature := range adjusted {
		byName[feature.FeatureName] = i
	}

	for _, adj := range adjustments {
		idx, ok := byName[adj.Feature]
		if !ok {
			continue
		}
		adjusted[idx].Confidence = clamp(adj.Confidence)
		if adj.Reason != "" {
			if adjusted[idx].Metadata == nil {
				adjusted[idx].Metadata = make(map[string]string)
			}
			adjusted[idx].Metadata["advisor_reason"] = adj.Reason
		}
	}

	sort.SliceStable(adjusted, func(i, j int) bool {
		return adjusted[i].Confidence > adjusted[j].Confidence
	})
	return adjusted, nil
}

func buildPrompt(impacted []types.ImpactedFeature, cs *types.ChangeSet) string {
	var b strings.Builder
	b.WriteString("You review change-impact estimates for a test selection tool.\n")
	b.WriteString("For each feature below, reply with JSON of the form\n")
	b.WriteString(`{"adjustments":[{"feature":"name","confidence":0.0,"reason":"..."}]}`)
	b.WriteString("\nonly including features whose confidence you would change.\n\n")
	fmt.Fprintf(&b, "Diff %s..%s touched %d files.\n\nFeatures:\n", cs.BaseRevision, cs.HeadRevision, len(cs.Records))
	for _, feature := range impacted {
		fmt.Fprintf(&b, "- %s (confidence %.2f, files: %s)\n",
			feature.FeatureName, feature.Confidence,
			strings.Join(feature.ImpactedFiles.Values(), ", "))
	}
	return b.String()
}

// parseReply accepts either a bare JSON object or one wrapped in prose or a
// code fence, by cutting to the outermost braces.
func parseReply(reply string) ([]adjustment, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var parsed advisorReply
	if err := json.Unmarshal([]byte(reply[start:end+1]), &parsed); err != nil {
		return nil, err
	}
	return parsed.Adjustments, nil
}

func clamp(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
