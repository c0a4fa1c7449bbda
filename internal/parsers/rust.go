package parsers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// RustExtension is the file extension of Rust source files.
const RustExtension = ".rs"

// RustParser parses Rust files.
type RustParser struct {
	*treeSitterParser
}

// NewRustParser creates a new Rust parser.
func NewRustParser() *RustParser {
	lang := sitter.NewLanguage(rust.Language())
	return &RustParser{
		treeSitterParser: newTreeSitterParser(lang, "rust"),
	}
}

// ParseFile reads and parses a Rust source file. The file is closed before
// ParseFile returns; the caller owns the returned tree and must Close it.
func (p *RustParser) ParseFile(ctx context.Context, filePath string) (*SyntaxTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFile, filePath)
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return p.ParseSource(filepath.Clean(filePath), source)
}

// ParseSource parses Rust source text. path is only used for error messages.
func (p *RustParser) ParseSource(path string, source []byte) (*SyntaxTree, error) {
	return p.parse(path, source)
}
