// Package metrics computes static metrics over Rust syntax trees: how many
// public and private functions are associated with each named type, and a
// per-function cognitive complexity score.
package metrics

import (
	"context"
	"encoding/json"
	"maps"

	"github.com/mvp-joe/code-metrics/internal/parsers"
)

// SourceLoader turns a file path into a syntax tree. Implementations must
// return an error for unreadable or malformed files.
type SourceLoader interface {
	ParseFile(ctx context.Context, path string) (*parsers.SyntaxTree, error)
}

// ItemCount is the number of public and private functions associated with one type.
type ItemCount struct {
	Public  uint32
	Private uint32
}

// Total is the number of associated functions regardless of visibility.
func (c ItemCount) Total() uint32 {
	return c.Public + c.Private
}

// Plus returns the field-wise sum of c and other.
func (c ItemCount) Plus(other ItemCount) ItemCount {
	return ItemCount{
		Public:  c.Public + other.Public,
		Private: c.Private + other.Private,
	}
}

// MarshalJSON emits public, private and the derived total.
func (c ItemCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

// MarshalYAML emits the same fields as MarshalJSON.
func (c ItemCount) MarshalYAML() (interface{}, error) {
	return c.wire(), nil
}

type itemCountWire struct {
	Public  uint32 `json:"public" yaml:"public"`
	Private uint32 `json:"private" yaml:"private"`
	Total   uint32 `json:"total" yaml:"total"`
}

func (c ItemCount) wire() itemCountWire {
	return itemCountWire{Public: c.Public, Private: c.Private, Total: c.Total()}
}

// Score is a cognitive complexity score.
type Score uint64

// Plus returns s + other.
func (s Score) Plus(other Score) Score {
	return s + other
}

// AssociatedMemberTable maps a type name to its associated function counts.
type AssociatedMemberTable map[string]ItemCount

// Add folds count into the entry for typeName, creating it if absent.
func (t AssociatedMemberTable) Add(typeName string, count ItemCount) {
	addInto(t, typeName, count)
}

// Merge folds every entry of other into t.
func (t AssociatedMemberTable) Merge(other AssociatedMemberTable) {
	Merge(t, other)
}

// ComplexityTable maps a function name to its complexity score.
type ComplexityTable map[string]Score

// Add folds score into the entry for name, creating it if absent.
func (t ComplexityTable) Add(name string, score Score) {
	addInto(t, name, score)
}

// Merge folds every entry of other into t.
func (t ComplexityTable) Merge(other ComplexityTable) {
	Merge(t, other)
}

// ModuleReference is a `mod name;` declaration with no body in the current file.
type ModuleReference struct {
	Identifier    string
	HasInlineBody bool
}

// Report pairs the complexity and associated member tables of one analysis.
// It is built by Combine and is not modified afterwards.
type Report struct {
	complexity ComplexityTable
	members    AssociatedMemberTable
}

// Complexity returns a copy of the complexity table.
func (r Report) Complexity() ComplexityTable {
	return maps.Clone(r.complexity)
}

// Members returns a copy of the associated member table.
func (r Report) Members() AssociatedMemberTable {
	return maps.Clone(r.members)
}

// reportWire keeps the key names the report has always been published with.
type reportWire struct {
	Complexity ComplexityTable       `json:"cc" yaml:"cc"`
	Members    AssociatedMemberTable `json:"amf" yaml:"amf"`
}

func (r Report) wire() reportWire {
	w := reportWire{Complexity: r.complexity, Members: r.members}
	if w.Complexity == nil {
		w.Complexity = ComplexityTable{}
	}
	if w.Members == nil {
		w.Members = AssociatedMemberTable{}
	}
	return w
}

// MarshalJSON encodes the report as {"cc": {...}, "amf": {...}}.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// MarshalYAML encodes the report with the same keys as MarshalJSON.
func (r Report) MarshalYAML() (interface{}, error) {
	return r.wire(), nil
}
