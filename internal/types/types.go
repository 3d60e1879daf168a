package types

import (
	"encoding/json"
	"sort"
)

// ChangeType classifies a changed file by its line deltas, not by any
// VCS-native status flag. Binary files are always Modified.
type ChangeType string

const (
	Added    ChangeType = "added"
	Modified ChangeType = "modified"
	Deleted  ChangeType = "deleted"
	Renamed  ChangeType = "renamed"
)

// StringSet is a set of strings with deterministic (sorted) serialization.
type StringSet map[string]struct{}

func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Union returns a new set containing the members of both sets.
func (s StringSet) Union(other StringSet) StringSet {
	out := make(StringSet, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Values returns the members in sorted order.
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

// LineRange is a span of lines in the head revision of a file.
type LineRange struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

// Contains reports whether the given 1-based line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line < r.Start+r.Count
}

// ChangeRecord is one file's entry in a ChangeSet. It is created once by the
// diff analyzer, optionally enriched with symbol sets, and immutable after
// enrichment. Symbol sets are empty for deleted or binary files.
type ChangeRecord struct {
	Path            string      `json:"path"`
	OldPath         string      `json:"old_path,omitempty"`
	Type            ChangeType  `json:"change_type"`
	Binary          bool        `json:"binary,omitempty"`
	Language        string      `json:"language,omitempty"`
	LinesAdded      int         `json:"lines_added"`
	LinesRemoved    int         `json:"lines_removed"`
	ChangedRanges   []LineRange `json:"changed_ranges,omitempty"`
	ChangedFuncs    StringSet   `json:"changed_functions,omitempty"`
	ChangedClasses  StringSet   `json:"changed_classes,omitempty"`
	ChangedImports  StringSet   `json:"changed_imports,omitempty"`
}

// ChangeSet is the full structured diff between two revisions. Exactly one
// instance exists per analysis run and it is treated as immutable once built.
type ChangeSet struct {
	BaseRevision      string         `json:"base_revision"`
	HeadRevision      string         `json:"head_revision"`
	Records           []ChangeRecord `json:"records"`
	TotalLinesAdded   int            `json:"total_lines_added"`
	TotalLinesRemoved int            `json:"total_lines_removed"`
	LanguagesAffected StringSet      `json:"languages_affected"`
}

// Empty reports whether the diff touched no files.
func (cs *ChangeSet) Empty() bool {
	return cs == nil || len(cs.Records) == 0
}
