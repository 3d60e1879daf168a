package analyzer

import (
	"context"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/agusespa/testscope/internal/git"
	"github.com/agusespa/testscope/internal/types"
)

// VCS is the revision collaborator the analyzer reads from.
type VCS interface {
	ResolveRevision(ctx context.Context, ref string) (string, error)
	DiffSummary(ctx context.Context, base, head string) ([]git.FileStat, error)
	Patch(ctx context.Context, base, head string) (string, error)
}

// Analyzer turns a pair of revision refs into a structured ChangeSet.
type Analyzer struct {
	vcs VCS
}

func New(vcs VCS) *Analyzer {
	return &Analyzer{vcs: vcs}
}

// Analyze resolves both refs and builds the per-file change records.
// Classification follows the line-delta convention: only insertions means
// added, only deletions means deleted, anything else (including binary
// files) is modified. Rename flags from git are recorded as OldPath but do
// not change the classification.
func (a *Analyzer) Analyze(ctx context.Context, baseRef, headRef string) (*types.ChangeSet, error) {
	base, err := a.vcs.ResolveRevision(ctx, baseRef)
	if err != nil {
		return nil, err
	}
	head, err := a.vcs.ResolveRevision(ctx, headRef)
	if err != nil {
		return nil, err
	}

	stats, err := a.vcs.DiffSummary(ctx, base, head)
	if err != nil {
		return nil, err
	}

	cs := &types.ChangeSet{
		BaseRevision:      base,
		HeadRevision:      head,
		LanguagesAffected: types.StringSet{},
	}

	ranges := a.changedRanges(ctx, base, head)

	for _, stat := range stats {
		record := types.ChangeRecord{
			Path:           stat.Path,
			OldPath:        stat.OldPath,
			Type:           classify(stat),
			Binary:         stat.Binary,
			Language:       DetectLanguage(stat.Path),
			LinesAdded:     stat.Insertions,
			LinesRemoved:   stat.Deletions,
			ChangedRanges:  ranges[stat.Path],
			ChangedFuncs:   types.StringSet{},
			ChangedClasses: types.StringSet{},
			ChangedImports: types.StringSet{},
		}
		if record.Language != "" {
			cs.LanguagesAffected.Add(record.Language)
		}
		cs.TotalLinesAdded += stat.Insertions
		cs.TotalLinesRemoved += stat.Deletions
		cs.Records = append(cs.Records, record)
	}

	return cs, nil
}

// changedRanges parses the unified patch into per-file head-side line
// ranges. A patch that cannot be fetched or parsed just means no ranges:
// enrichment then reports every symbol in the file instead of only the
// touched ones.
func (a *Analyzer) changedRanges(ctx context.Context, base, head string) map[string][]types.LineRange {
	patch, err := a.vcs.Patch(ctx, base, head)
	if err != nil || patch == "" {
		return nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(patch))
	if err != nil {
		return nil
	}

	ranges := make(map[string][]types.LineRange, len(fileDiffs))
	for _, fd := range fileDiffs {
		path := strings.TrimPrefix(fd.NewName, "b/")
		if path == "" || path == "/dev/null" {
			continue
		}
		for _, hunk := range fd.Hunks {
			count := int(hunk.NewLines)
			if count == 0 {
				continue
			}
			ranges[path] = append(ranges[path], types.LineRange{
				Start: int(hunk.NewStartLine),
				Count: count,
			})
		}
	}
	return ranges
}

func classify(stat git.FileStat) types.ChangeType {
	if stat.Binary {
		return types.Modified
	}
	switch {
	case stat.Insertions > 0 && stat.Deletions == 0:
		return types.Added
	case stat.Insertions == 0 && stat.Deletions > 0:
		return types.Deleted
	default:
		return types.Modified
	}
}
