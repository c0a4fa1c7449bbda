package metrics

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/code-metrics/internal/parsers"
)

// nodeKind is the closed set of syntax node kinds the visitors act on.
// Every other grammar node is kindOther and is only descended through.
type nodeKind int

const (
	kindOther nodeKind = iota
	kindImpl
	kindModule
	kindTrait
	kindFunction
	kindClosure
	kindIf
	kindMatch
	kindLoop
)

func classify(node *sitter.Node) nodeKind {
	switch node.Kind() {
	case "impl_item":
		return kindImpl
	case "mod_item":
		return kindModule
	case "trait_item":
		return kindTrait
	case "function_item":
		return kindFunction
	case "closure_expression":
		return kindClosure
	case "if_expression":
		return kindIf
	case "match_expression":
		return kindMatch
	case "loop_expression", "while_expression", "for_expression":
		return kindLoop
	default:
		return kindOther
	}
}

// children returns the direct children of node, anonymous tokens included.
func children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.ChildCount())
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// namedChildrenOfKind returns the named children of node with the given grammar kind.
func namedChildrenOfKind(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// identifierText returns the name of an identifier node, stripping the raw
// identifier prefix so `r#type` and `type` name the same thing.
func identifierText(tree *parsers.SyntaxTree, node *sitter.Node) string {
	return strings.TrimPrefix(tree.Text(node), "r#")
}

// isPublic reports whether an item carries a bare `pub` visibility.
// Restricted forms such as pub(crate) count as private.
func isPublic(tree *parsers.SyntaxTree, item *sitter.Node) bool {
	vis := firstNamedChildOfKind(item, "visibility_modifier")
	return vis != nil && strings.TrimSpace(tree.Text(vis)) == "pub"
}

// moduleReference describes a mod_item node.
func moduleReference(tree *parsers.SyntaxTree, node *sitter.Node) (ModuleReference, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return ModuleReference{}, false
	}
	return ModuleReference{
		Identifier:    identifierText(tree, name),
		HasInlineBody: node.ChildByFieldName("body") != nil,
	}, true
}

// implTarget returns the name of the type an impl block is attached to.
// Only simple named paths qualify: Foo, a::b::Foo and Foo<T>. A target that
// is one of the impl's own type parameters, or any tuple, reference, array,
// pointer, function or trait-object type, has no name.
func implTarget(tree *parsers.SyntaxTree, impl *sitter.Node) (string, bool) {
	target := impl.ChildByFieldName("type")
	if target == nil {
		return "", false
	}

	if target.Kind() == "generic_type" {
		target = target.ChildByFieldName("type")
		if target == nil {
			return "", false
		}
	}

	switch target.Kind() {
	case "type_identifier":
		name := identifierText(tree, target)
		if isTypeParameter(tree, impl, name) {
			return "", false
		}
		return name, true
	case "scoped_type_identifier":
		name := target.ChildByFieldName("name")
		if name == nil {
			return "", false
		}
		return identifierText(tree, name), true
	default:
		return "", false
	}
}

// isTypeParameter reports whether name is declared in the impl's generic parameter list.
func isTypeParameter(tree *parsers.SyntaxTree, impl *sitter.Node, name string) bool {
	params := impl.ChildByFieldName("type_parameters")
	if params == nil {
		return false
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		if param == nil {
			continue
		}
		ident := param
		if param.Kind() != "type_identifier" {
			ident = param.ChildByFieldName("name")
			if ident == nil {
				ident = firstNamedChildOfKind(param, "type_identifier")
			}
		}
		if ident != nil && ident.Kind() == "type_identifier" && identifierText(tree, ident) == name {
			return true
		}
	}
	return false
}

func firstNamedChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	if found := namedChildrenOfKind(node, kind); len(found) > 0 {
		return found[0]
	}
	return nil
}
