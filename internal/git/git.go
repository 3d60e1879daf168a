package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNotFound is returned by FileContentAt when the path does not exist at
// the given revision.
var ErrNotFound = errors.New("path not found at revision")

// RepositoryError is a fatal VCS failure: the directory is not a repository
// or a revision cannot be resolved. It aborts the whole analysis run.
type RepositoryError struct {
	Stage string
	Path  string
	Err   error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("git %s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// FileStat is one file's entry in a numstat diff summary. Insertions and
// Deletions are zero for binary files, which git reports with "-" counters.
type FileStat struct {
	Path       string
	OldPath    string
	Insertions int
	Deletions  int
	Binary     bool
}

// Repository runs git subcommands against a local working tree.
type Repository struct {
	dir string
}

// Open validates that dir belongs to a git repository.
func Open(ctx context.Context, dir string) (*Repository, error) {
	r := &Repository{dir: dir}
	if _, err := r.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, &RepositoryError{Stage: "open", Path: dir, Err: err}
	}
	return r, nil
}

// Dir returns the working tree path the repository was opened with.
func (r *Repository) Dir() string {
	return r.dir
}

// ResolveRevision resolves a ref (branch, tag, SHA, HEAD~n) to a full
// commit SHA.
func (r *Repository) ResolveRevision(ctx context.Context, ref string) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", &RepositoryError{Stage: "resolve " + ref, Path: r.dir, Err: err}
	}
	return strings.TrimSpace(out), nil
}

// DiffSummary returns per-file insertion/deletion counts between two commits.
func (r *Repository) DiffSummary(ctx context.Context, base, head string) ([]FileStat, error) {
	out, err := r.run(ctx, "diff", "--numstat", base, head)
	if err != nil {
		return nil, &RepositoryError{Stage: "diff", Path: r.dir, Err: err}
	}
	return parseNumstat(out), nil
}

// Patch returns the unified diff between two commits.
func (r *Repository) Patch(ctx context.Context, base, head string) (string, error) {
	out, err := r.run(ctx, "diff", "--no-color", "--unified=0", base, head)
	if err != nil {
		return "", &RepositoryError{Stage: "patch", Path: r.dir, Err: err}
	}
	return out, nil
}

// FileContentAt returns the content of path at the given commit.
func (r *Repository) FileContentAt(ctx context.Context, commit, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", r.dir, "show", commit+":"+path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if strings.Contains(msg, "does not exist") || strings.Contains(msg, "exists on disk, but not in") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("git show %s:%s: %w", commit, path, err)
	}
	return stdout.Bytes(), nil
}

func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", r.dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w", msg, err)
		}
		return "", err
	}
	return stdout.String(), nil
}

// parseNumstat parses `git diff --numstat` output. Binary files show "-"
// counters; renames show either "old => new" or the brace form
// "dir/{old => new}/file".
func parseNumstat(output string) []FileStat {
	var stats []FileStat
	for line := range strings.SplitSeq(strings.TrimSpace(output), "\n") {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		stat := FileStat{}
		if fields[0] == "-" || fields[1] == "-" {
			stat.Binary = true
		} else {
			stat.Insertions, _ = strconv.Atoi(fields[0])
			stat.Deletions, _ = strconv.Atoi(fields[1])
		}
		stat.Path, stat.OldPath = parseRename(fields[2])
		if stat.Path == "" {
			continue
		}
		stats = append(stats, stat)
	}
	return stats
}

func parseRename(field string) (path, oldPath string) {
	field = strings.TrimSpace(field)
	if open := strings.Index(field, "{"); open >= 0 {
		if close := strings.Index(field, "}"); close > open {
			inner := field[open+1 : close]
			if old, new, ok := strings.Cut(inner, " => "); ok {
				prefix, suffix := field[:open], field[close+1:]
				return cleanPath(prefix + new + suffix), cleanPath(prefix + old + suffix)
			}
		}
	}
	if old, new, ok := strings.Cut(field, " => "); ok {
		return new, old
	}
	return field, ""
}

func cleanPath(p string) string {
	return strings.ReplaceAll(p, "//", "/")
}
