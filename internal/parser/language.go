package parser

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/agusespa/testscope/internal/types"
)

// kindSpec is the per-language lookup table of declaration node kinds. Each
// grammar tags the node subtypes that count as function-like, class-like and
// import-like for symbol extraction.
type kindSpec struct {
	extensions []string
	functions  []string
	classes    []string
	imports    []string
}

// LanguageParser extracts symbols from one language using its tree-sitter
// grammar and kind tables.
type LanguageParser struct {
	name       string
	extensions []string
	parser     *sitter.Parser
	language   *sitter.Language

	functionKinds map[string]bool
	classKinds    map[string]bool
	importKinds   map[string]bool

	// tree-sitter parsers are not safe for concurrent Parse calls.
	mu sync.Mutex
}

func newLanguageParser(name string, language *sitter.Language, spec kindSpec) (*LanguageParser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language for %s parser: %w", name, err)
	}
	return &LanguageParser{
		name:          name,
		extensions:    spec.extensions,
		parser:        p,
		language:      language,
		functionKinds: kindTable(spec.functions),
		classKinds:    kindTable(spec.classes),
		importKinds:   kindTable(spec.imports),
	}, nil
}

func kindTable(kinds []string) map[string]bool {
	table := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		table[k] = true
	}
	return table
}

func (lp *LanguageParser) Language() string {
	return lp.name
}

func (lp *LanguageParser) SupportedExtensions() []string {
	return lp.extensions
}

// ParseFile parses the content and walks every node, collecting symbols for
// declarations whose kind appears in the language's tables.
func (lp *LanguageParser) ParseFile(content []byte) ([]types.Symbol, error) {
	lp.mu.Lock()
	tree := lp.parser.Parse(content, nil)
	lp.mu.Unlock()
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: tree-sitter returned nil", lp.name)
	}
	defer tree.Close()

	var symbols []types.Symbol
	lp.walk(tree.RootNode(), content, &symbols)
	return symbols, nil
}

func (lp *LanguageParser) walk(node *sitter.Node, src []byte, out *[]types.Symbol) {
	kind := node.Kind()

	switch {
	case lp.functionKinds[kind]:
		lp.collect(node, src, types.SymbolFunction, out)
	case lp.classKinds[kind]:
		lp.collect(node, src, types.SymbolClass, out)
	case lp.importKinds[kind]:
		if name := importName(node, src); name != "" {
			*out = append(*out, types.Symbol{
				Name:      name,
				Kind:      types.SymbolImport,
				StartLine: int(node.StartPosition().Row) + 1,
				EndLine:   int(node.EndPosition().Row) + 1,
			})
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			lp.walk(child, src, out)
		}
	}
}

func (lp *LanguageParser) collect(node *sitter.Node, src []byte, kind types.SymbolKind, out *[]types.Symbol) {
	name := declName(node, src)
	if name == "" {
		return
	}
	*out = append(*out, types.Symbol{
		Name:      name,
		Kind:      kind,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	})
}

// declName resolves the name of a declaration node: the "name" field when
// the grammar provides one, then a declarator descent (C-style grammars nest
// the identifier inside the declarator chain), then the first identifier
// child at depth 1.
func declName(node *sitter.Node, src []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return strings.TrimSpace(nameNode.Utf8Text(src))
	}

	for decl := node.ChildByFieldName("declarator"); decl != nil; decl = decl.ChildByFieldName("declarator") {
		if isIdentifierKind(decl.Kind()) {
			return strings.TrimSpace(decl.Utf8Text(src))
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && isIdentifierKind(child.Kind()) {
			return strings.TrimSpace(child.Utf8Text(src))
		}
	}
	return ""
}

// importName resolves the imported module path or package name, stripped of
// quoting and include brackets.
func importName(node *sitter.Node, src []byte) string {
	for _, field := range []string{"path", "source", "module_name"} {
		if child := node.ChildByFieldName(field); child != nil {
			return trimImport(child.Utf8Text(src))
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "interpreted_string_literal", "raw_string_literal", "string_literal",
			"string", "system_lib_string", "dotted_name", "scoped_identifier",
			"aliased_import", "identifier":
			return trimImport(child.Utf8Text(src))
		}
	}
	return ""
}

func isIdentifierKind(kind string) bool {
	switch kind {
	case "identifier", "type_identifier", "field_identifier", "property_identifier":
		return true
	}
	return false
}

func trimImport(text string) string {
	return strings.Trim(strings.TrimSpace(text), "\"'`<>")
}
