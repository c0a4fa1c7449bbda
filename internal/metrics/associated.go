package metrics

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/code-metrics/internal/parsers"
)

// CounterOptions configures an AssociatedMemberCounter.
type CounterOptions struct {
	// Extension of source files considered during module resolution (".rs").
	Extension string
	// Ignore holds glob patterns matched against file names when a module
	// resolves to a directory.
	Ignore []string
	Logger *logrus.Logger
}

// AssociatedMemberCounter counts public and private functions per impl target
// type, following out-of-line module declarations into other files.
type AssociatedMemberCounter struct {
	loader   SourceLoader
	resolver *moduleResolver
	logger   *logrus.Logger
}

// NewAssociatedMemberCounter creates a counter that parses referenced module
// files through loader.
func NewAssociatedMemberCounter(loader SourceLoader, opts CounterOptions) (*AssociatedMemberCounter, error) {
	if opts.Extension == "" {
		opts.Extension = parsers.RustExtension
	}

	resolver, err := newModuleResolver(opts.Extension, opts.Ignore)
	if err != nil {
		return nil, err
	}

	return &AssociatedMemberCounter{
		loader:   loader,
		resolver: resolver,
		logger:   loggerOrDiscard(opts.Logger),
	}, nil
}

// Count tallies the associated functions declared in tree and in every module
// file it references. baseDir is the directory `mod name;` declarations in
// tree resolve against.
func (c *AssociatedMemberCounter) Count(ctx context.Context, tree *parsers.SyntaxTree, baseDir string) (AssociatedMemberTable, error) {
	table := AssociatedMemberTable{}

	var refs []ModuleReference
	c.visit(tree, tree.Root(), table, &refs)

	for _, ref := range refs {
		sub, err := c.countModule(ctx, ref, baseDir)
		if err != nil {
			return nil, err
		}
		table.Merge(sub)
	}

	return table, nil
}

// visit records impl block counts into table and collects body-less module
// declarations into refs.
func (c *AssociatedMemberCounter) visit(tree *parsers.SyntaxTree, node *sitter.Node, table AssociatedMemberTable, refs *[]ModuleReference) {
	switch classify(node) {
	case kindImpl:
		c.countImpl(tree, node, table)
	case kindModule:
		if ref, ok := moduleReference(tree, node); ok && !ref.HasInlineBody {
			*refs = append(*refs, ref)
		}
	case kindTrait, kindFunction, kindClosure, kindIf, kindMatch, kindLoop, kindOther:
	}

	for _, child := range children(node) {
		c.visit(tree, child, table, refs)
	}
}

func (c *AssociatedMemberCounter) countImpl(tree *parsers.SyntaxTree, impl *sitter.Node, table AssociatedMemberTable) {
	typeName, ok := implTarget(tree, impl)
	if !ok {
		c.logger.WithFields(logrus.Fields{
			"file":   tree.Path,
			"target": tree.Text(impl.ChildByFieldName("type")),
		}).Debug("skipping impl block without a simple named target")
		return
	}

	var count ItemCount
	for _, fn := range namedChildrenOfKind(impl.ChildByFieldName("body"), "function_item") {
		public := isPublic(tree, fn)
		if public {
			count.Public++
		} else {
			count.Private++
		}
		c.logger.WithFields(logrus.Fields{
			"file":   tree.Path,
			"item":   typeName,
			"method": tree.Text(fn.ChildByFieldName("name")),
			"public": public,
		}).Debug("found associated function")
	}

	if count.Total() == 0 {
		return
	}
	table.Add(typeName, count)
}

// countModule resolves ref and runs a fresh counter over each resolved file.
func (c *AssociatedMemberCounter) countModule(ctx context.Context, ref ModuleReference, baseDir string) (AssociatedMemberTable, error) {
	resolved, err := c.resolver.resolve(ref, baseDir)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"module": ref.Identifier,
		"base":   baseDir,
		"layout": resolved.layout,
		"files":  len(resolved.files),
	}).Debug("resolved module reference")

	table := AssociatedMemberTable{}
	for _, file := range resolved.files {
		sub, err := c.countFile(ctx, file, resolved.baseDir)
		if err != nil {
			return nil, err
		}
		table.Merge(sub)
	}
	return table, nil
}

func (c *AssociatedMemberCounter) countFile(ctx context.Context, path, baseDir string) (AssociatedMemberTable, error) {
	tree, err := c.loader.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load module %s: %w", path, err)
	}
	defer tree.Close()

	return c.Count(ctx, tree, baseDir)
}

func loggerOrDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
