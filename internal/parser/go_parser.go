package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

func NewGoParser() (*LanguageParser, error) {
	return newLanguageParser("Go", sitter.NewLanguage(tree_sitter_go.Language()), kindSpec{
		extensions: []string{".go"},
		functions:  []string{"function_declaration", "method_declaration"},
		classes:    []string{"type_spec"},
		imports:    []string{"import_spec"},
	})
}
