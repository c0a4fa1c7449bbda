package parsers

import (
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	// ErrSyntax indicates the source text does not form a valid syntax tree.
	ErrSyntax = errors.New("syntax error")

	// ErrUnsupportedFile indicates a path that cannot be parsed as a source file.
	ErrUnsupportedFile = errors.New("unsupported file")
)

// SyntaxTree is a parsed source file. The tree owns native memory and must be
// released with Close once the caller is done visiting it.
type SyntaxTree struct {
	Path   string
	Source []byte

	tree *sitter.Tree
}

// Root returns the root node of the tree.
func (t *SyntaxTree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Text returns the source text covered by node.
func (t *SyntaxTree) Text(node *sitter.Node) string {
	return extractNodeText(node, t.Source)
}

// Close releases the underlying tree-sitter tree.
func (t *SyntaxTree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// parse builds a syntax tree for source. Trees containing error or missing
// nodes are rejected with ErrSyntax.
func (p *treeSitterParser) parse(path string, source []byte) (*SyntaxTree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", p.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file %s: %w", p.lang, path, ErrSyntax)
	}

	root := tree.RootNode()
	if root.HasError() {
		defer tree.Close()
		if bad := firstErrorNode(root); bad != nil {
			pos := bad.StartPosition()
			return nil, fmt.Errorf("%w in %s at line %d, column %d", ErrSyntax, path, pos.Row+1, pos.Column+1)
		}
		return nil, fmt.Errorf("%w in %s", ErrSyntax, path)
	}

	return &SyntaxTree{
		Path:   path,
		Source: source,
		tree:   tree,
	}, nil
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(node, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	return found
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}
