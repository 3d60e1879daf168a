package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var typescriptKinds = kindSpec{
	functions: []string{"function_declaration", "generator_function_declaration", "method_definition"},
	classes: []string{
		"class_declaration", "abstract_class_declaration", "interface_declaration",
		"enum_declaration", "type_alias_declaration",
	},
	imports: []string{"import_statement"},
}

func NewTypeScriptParser() (*LanguageParser, error) {
	spec := typescriptKinds
	spec.extensions = []string{".ts"}
	return newLanguageParser("TypeScript", sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()), spec)
}

// NewTSXParser covers JSX-flavored files; the TSX grammar is a superset that
// also parses plain JavaScript.
func NewTSXParser() (*LanguageParser, error) {
	spec := typescriptKinds
	spec.extensions = []string{".tsx", ".jsx", ".js", ".mjs", ".cjs"}
	return newLanguageParser("TypeScript", sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()), spec)
}
