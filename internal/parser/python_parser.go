package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

func NewPythonParser() (*LanguageParser, error) {
	return newLanguageParser("Python", sitter.NewLanguage(tree_sitter_python.Language()), kindSpec{
		extensions: []string{".py"},
		functions:  []string{"function_definition"},
		classes:    []string{"class_definition"},
		imports:    []string{"import_statement", "import_from_statement"},
	})
}
