package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func NewJavaParser() (*LanguageParser, error) {
	return newLanguageParser("Java", sitter.NewLanguage(tree_sitter_java.Language()), kindSpec{
		extensions: []string{".java"},
		functions:  []string{"method_declaration", "constructor_declaration"},
		classes:    []string{"class_declaration", "interface_declaration", "enum_declaration", "record_declaration"},
		imports:    []string{"import_declaration"},
	})
}
