package analyzer

import (
	"path/filepath"
	"strings"
)

var extensionLanguages = map[string]string{
	".go":    "go",
	".c":     "c",
	".h":     "c",
	".java":  "java",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".rb":    "ruby",
	".rs":    "rust",
	".php":   "php",
	".cs":    "csharp",
	".kt":    "kotlin",
	".swift": "swift",
	".scala": "scala",
}

// DetectLanguage maps a file path to a language name via its extension.
// Unknown extensions return the empty string.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return extensionLanguages[ext]
}
