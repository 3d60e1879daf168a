package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry maps file extensions to language parsers.
type Registry struct {
	parsers map[string]*LanguageParser
}

// NewRegistry builds a registry with every supported grammar registered.
// Grammar setup only fails on a broken build, so a failure here panics.
func NewRegistry() *Registry {
	registry := &Registry{
		parsers: make(map[string]*LanguageParser),
	}

	for _, construct := range []func() (*LanguageParser, error){
		NewGoParser,
		NewCParser,
		NewJavaParser,
		NewPythonParser,
		NewTypeScriptParser,
		NewTSXParser,
	} {
		p, err := construct()
		if err != nil {
			panic(fmt.Errorf("failed to create parser: %w", err))
		}
		registry.RegisterParser(p)
	}

	return registry
}

func (r *Registry) RegisterParser(parser *LanguageParser) {
	for _, ext := range parser.SupportedExtensions() {
		r.parsers[ext] = parser
	}
}

// ParserFor returns the parser registered for the file's extension, or nil
// when the language is not supported.
func (r *Registry) ParserFor(path string) *LanguageParser {
	ext := strings.ToLower(filepath.Ext(path))
	return r.parsers[ext]
}

func (r *Registry) Supported(path string) bool {
	return r.ParserFor(path) != nil
}

// Languages returns the distinct registered language names, sorted.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)
	var languages []string
	for _, p := range r.parsers {
		if !seen[p.Language()] {
			seen[p.Language()] = true
			languages = append(languages, p.Language())
		}
	}
	sort.Strings(languages)
	return languages
}
