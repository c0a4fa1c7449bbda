package metrics

import (
	"github.com/sirupsen/logrus"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/code-metrics/internal/parsers"
)

// baseScore is the score of a function with no branching constructs.
const baseScore Score = 1

// ComplexityScorer computes a cognitive complexity score for every free
// function and every function inside an impl block.
//
// Rules, applied to every construct nested in a function body:
//
//	if with an else branch            +1
//	match with more than one arm      +1, and +1 per arm with a guard
//
// Loops add nothing. Closures and nested function items do not contribute to
// the enclosing function; nested items are recorded under their own names.
type ComplexityScorer struct {
	logger *logrus.Logger
}

// NewComplexityScorer creates a scorer. A nil logger discards output.
func NewComplexityScorer(logger *logrus.Logger) *ComplexityScorer {
	return &ComplexityScorer{logger: loggerOrDiscard(logger)}
}

// Score returns the complexity of every function in tree. Functions sharing
// a name have their scores summed.
func (s *ComplexityScorer) Score(tree *parsers.SyntaxTree) ComplexityTable {
	table := ComplexityTable{}
	s.collect(tree, tree.Root(), table)
	return table
}

// collect walks item-level nodes looking for functions to score.
func (s *ComplexityScorer) collect(tree *parsers.SyntaxTree, node *sitter.Node, table ComplexityTable) {
	switch classify(node) {
	case kindFunction:
		s.scoreFunction(tree, node, table)
		return
	case kindTrait:
		// Default method bodies in traits are not scored.
		return
	case kindImpl, kindModule, kindClosure, kindIf, kindMatch, kindLoop, kindOther:
	}

	for _, child := range children(node) {
		s.collect(tree, child, table)
	}
}

func (s *ComplexityScorer) scoreFunction(tree *parsers.SyntaxTree, fn *sitter.Node, table ComplexityTable) {
	name := fn.ChildByFieldName("name")
	body := fn.ChildByFieldName("body")
	if name == nil || body == nil {
		return
	}

	score := baseScore
	s.walk(tree, body, &score, table)

	ident := identifierText(tree, name)
	s.logger.WithFields(logrus.Fields{
		"file":     tree.Path,
		"function": ident,
		"score":    score,
	}).Debug("scored function")

	table.Add(ident, score)
}

// walk accumulates the score of the constructs under node into score.
func (s *ComplexityScorer) walk(tree *parsers.SyntaxTree, node *sitter.Node, score *Score, table ComplexityTable) {
	switch classify(node) {
	case kindFunction, kindImpl, kindModule, kindTrait:
		// Items nested in a body are scored on their own.
		s.collect(tree, node, table)
		return
	case kindClosure:
		closure := baseScore
		for _, child := range children(node) {
			s.walk(tree, child, &closure, table)
		}
		return
	case kindIf:
		if node.ChildByFieldName("alternative") != nil {
			*score++
		}
	case kindMatch:
		*score += matchScore(node)
	case kindLoop:
		// Loops are not scored.
	case kindOther:
	}

	for _, child := range children(node) {
		s.walk(tree, child, score, table)
	}
}

// matchScore is +1 for a match with more than one arm plus +1 for each
// guarded arm. A match with a single arm contributes nothing.
func matchScore(match *sitter.Node) Score {
	arms := namedChildrenOfKind(match.ChildByFieldName("body"), "match_arm")
	if len(arms) <= 1 {
		return 0
	}

	score := Score(1)
	for _, arm := range arms {
		if pattern := arm.ChildByFieldName("pattern"); pattern != nil && pattern.ChildByFieldName("condition") != nil {
			score++
		}
	}
	return score
}
