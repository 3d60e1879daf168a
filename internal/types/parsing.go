package types

// SymbolKind classifies an extracted symbol by the role of its declaration
// node in the syntax tree.
type SymbolKind string

const (
	SymbolFunction SymbolKind = "function"
	SymbolClass    SymbolKind = "class"
	SymbolImport   SymbolKind = "import"
)

// Symbol is a named declaration extracted from a parsed source file.
type Symbol struct {
	Name      string     // The name of the symbol, or the import path for imports
	Kind      SymbolKind // Function-like, class-like or import-like
	StartLine int        // 1-based starting line of the declaration
	EndLine   int        // 1-based ending line of the declaration
}
