package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

func NewCParser() (*LanguageParser, error) {
	return newLanguageParser("C", sitter.NewLanguage(tree_sitter_c.Language()), kindSpec{
		extensions: []string{".c", ".h"},
		functions:  []string{"function_definition"},
		classes:    []string{"struct_specifier", "union_specifier", "enum_specifier", "type_definition"},
		imports:    []string{"preproc_include"},
	})
}
