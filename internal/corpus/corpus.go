package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Framework identifies a test-framework adapter.
type Framework string

const (
	Jest   Framework = "jest"
	Vitest Framework = "vitest"
	Pytest Framework = "pytest"
	GoTest Framework = "gotest"
)

// CorpusError means the test-corpus collaborator itself is unreachable. It
// is fatal for the framework, not for the surrounding process.
type CorpusError struct {
	Framework Framework
	Err       error
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("test corpus (%s) unavailable: %v", e.Framework, e.Err)
}

func (e *CorpusError) Unwrap() error {
	return e.Err
}

// frameworkPatterns maps each framework to the globs that identify its test
// files.
var frameworkPatterns = map[Framework][]string{
	Jest: {
		"**/*.test.{js,jsx,ts,tsx}",
		"**/*.spec.{js,jsx,ts,tsx}",
		"**/__tests__/**/*.{js,jsx,ts,tsx}",
	},
	Vitest: {
		"**/*.test.{js,jsx,ts,tsx,mjs}",
		"**/*.spec.{js,jsx,ts,tsx,mjs}",
	},
	Pytest: {
		"**/test_*.py",
		"**/*_test.py",
	},
	GoTest: {
		"**/*_test.go",
	},
}

// skippedDirs are never descended into when walking the corpus root.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".venv":        true,
}

// Adapter lists candidate test files for one framework by walking a root
// directory.
type Adapter struct {
	root      string
	framework Framework
	patterns  []string
}

// NewAdapter builds an adapter for the given framework. Unknown framework
// names are a configuration error.
func NewAdapter(root string, framework Framework) (*Adapter, error) {
	patterns, ok := frameworkPatterns[framework]
	if !ok {
		return nil, fmt.Errorf("unsupported test framework: %s", framework)
	}
	return &Adapter{root: root, framework: framework, patterns: patterns}, nil
}

func (a *Adapter) Framework() Framework {
	return a.framework
}

// ListTestFiles walks the root and returns the matching test files as
// sorted, slash-separated paths relative to the root. An unreadable root is
// a CorpusError; unreadable entries below it are skipped.
func (a *Adapter) ListTestFiles() ([]string, error) {
	if _, err := os.Stat(a.root); err != nil {
		return nil, &CorpusError{Framework: a.framework, Err: err}
	}

	var tests []string
	root := os.DirFS(a.root)
	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == "." {
				return err
			}
			return fs.SkipDir
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") && path != "." {
				return fs.SkipDir
			}
			return nil
		}
		for _, pattern := range a.patterns {
			if ok, matchErr := doublestar.Match(pattern, path); matchErr == nil && ok {
				tests = append(tests, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, &CorpusError{Framework: a.framework, Err: err}
	}

	sort.Strings(tests)
	return tests, nil
}
