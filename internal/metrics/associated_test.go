package metrics

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/code-metrics/internal/parsers"
)

// Test Plan for AssociatedMemberCounter:
// - Counts public and private methods across inherent, trait and inline-module impls
// - A type with one private and one public function yields {1, 1}
// - Types without associated functions never appear in the table
// - Restricted visibility (pub(crate), pub(super)) counts as private
// - Generic targets count under their base name, scoped paths under their last segment
// - Type-parameter, tuple and reference targets contribute nothing
// - `mod sub;` resolves to sub.rs beside the parent file
// - `mod sub;` resolves to every source file directly inside sub/
// - Directory modules skip other extensions, subdirectories and ignored globs
// - Missing module targets are silently skipped
// - Nested module references resolve relative to the referencing file's base
// - Raw identifiers resolve without the r# prefix
// - Parse failures in a resolved module propagate with ErrSyntax
// - Invalid ignore patterns are rejected at construction
// - Fixture crate in testdata/one aggregates across files

func TestCount_InherentTraitAndInlineModuleImpls(t *testing.T) {
	t.Parallel()

	tree := parseString(t, `
struct Tstruct {}

impl Tstruct {
    fn tfn() { }
    pub fn pubtfn() { }
}

trait Ttrait {
    fn trfn();
}

impl Ttrait for Tstruct {
    fn trfn() { }
}

mod submod {
    impl Tstruct {
        pub fn submodstruct() {}
    }
}
`)

	table, err := newTestCounter(t).Count(t.Context(), tree, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"Tstruct": {Public: 2, Private: 2}}, table)
	assert.Equal(t, uint32(4), table["Tstruct"].Total())
}

func TestCount_OnePublicOnePrivate(t *testing.T) {
	t.Parallel()

	tree := parseString(t, `
struct T;
impl T {
    fn a() {}
    pub fn b(&self) {}
}
`)

	table, err := newTestCounter(t).Count(t.Context(), tree, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"T": {Public: 1, Private: 1}}, table)
	assert.Equal(t, uint32(2), table["T"].Total())
}

func TestCount_TypeWithoutFunctionsIsAbsent(t *testing.T) {
	t.Parallel()

	tree := parseString(t, `
struct Empty;
impl Empty {}
impl Empty {
    const LIMIT: u32 = 3;
}
impl Default for Empty {
    fn default() -> Self { Empty }
}
struct Unused;
`)

	table, err := newTestCounter(t).Count(t.Context(), tree, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"Empty": {Private: 1}}, table)
	assert.NotContains(t, table, "Unused")
}

func TestCount_RestrictedVisibilityIsPrivate(t *testing.T) {
	t.Parallel()

	tree := parseString(t, `
struct S;
impl S {
    pub(crate) fn a() {}
    pub(super) fn b() {}
    pub(in crate::x) fn c() {}
    pub fn d() {}
}
`)

	table, err := newTestCounter(t).Count(t.Context(), tree, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ItemCount{Public: 1, Private: 3}, table["S"])
}

func TestCount_TargetShapes(t *testing.T) {
	t.Parallel()

	tree := parseString(t, `
struct Wrapper<T>(T);
impl<T> Wrapper<T> {
    pub fn get(&self) {}
}
impl crate::model::User {
    pub fn name(&self) {}
}
trait Describe { fn describe(&self); }
impl<T> Describe for T {
    fn describe(&self) {}
}
impl Describe for (u8, u8) {
    fn describe(&self) {}
}
impl<'a> Describe for &'a str {
    fn describe(&self) {}
}
impl Describe for [u8] {
    fn describe(&self) {}
}
`)

	table, err := newTestCounter(t).Count(t.Context(), tree, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{
		"Wrapper": {Public: 1},
		"User":    {Public: 1},
	}, table)
}

func TestCount_ModuleFileBesideParent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"lib.rs": "mod sub;\n",
		"sub.rs": "pub struct S;\nimpl S {\n    pub fn new() -> Self { S }\n}\n",
	})

	tree := parseFile(t, filepath.Join(dir, "lib.rs"))
	table, err := newTestCounter(t).Count(t.Context(), tree, dir)
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"S": {Public: 1}}, table)
}

func TestCount_ModuleDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"lib.rs":             "mod shapes;\nstruct Circle;\nimpl Circle { fn area() {} }\n",
		"shapes/circle.rs":   "impl Circle { pub fn radius() {} }\n",
		"shapes/square.rs":   "struct Square;\nimpl Square { pub fn side() {} fn hidden() {} }\n",
		"shapes/README.md":   "impl Ignored { pub fn nope() {} }\n",
		"shapes/deep/tri.rs": "struct Tri;\nimpl Tri { pub fn deep() {} }\n",
	})

	tree := parseFile(t, filepath.Join(dir, "lib.rs"))
	table, err := newTestCounter(t).Count(t.Context(), tree, dir)
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{
		"Circle": {Public: 1, Private: 1},
		"Square": {Public: 1, Private: 1},
	}, table)
}

func TestCount_ModuleDirectoryIgnoreGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"lib.rs":            "mod api;\n",
		"api/handlers.rs":   "struct H;\nimpl H { pub fn get() {} }\n",
		"api/handlers_t.rs": "struct HT;\nimpl HT { pub fn check() {} }\n",
	})

	tree := parseFile(t, filepath.Join(dir, "lib.rs"))
	table, err := newTestCounter(t, "*_t.rs").Count(t.Context(), tree, dir)
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"H": {Public: 1}}, table)
}

func TestCount_MissingModuleIsSkipped(t *testing.T) {
	t.Parallel()

	tree := parseString(t, "mod gone;\nstruct A;\nimpl A { pub fn a() {} }\n")

	table, err := newTestCounter(t).Count(t.Context(), tree, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"A": {Public: 1}}, table)
}

func TestCount_NestedModulesAndCollisions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.rs":        "mod net;\nmod store;\nstruct Conn;\nimpl Conn { fn open() {} }\n",
		"net.rs":         "mod tcp;\nimpl Conn { pub fn send() {} }\n",
		"tcp.rs":         "impl Conn { pub fn dial() {} }\n",
		"store/disk.rs":  "mod cache;\nimpl Conn { fn flush() {} }\n",
		"store/cache.rs": "struct Cache;\nimpl Cache { pub fn get() {} }\n",
	})

	tree := parseFile(t, filepath.Join(dir, "main.rs"))
	table, err := newTestCounter(t).Count(t.Context(), tree, dir)
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{
		"Conn": {Public: 2, Private: 2},
		// store/cache.rs is reached both as a directory entry and through
		// disk.rs, so it is counted twice.
		"Cache": {Public: 2},
	}, table)
}

func TestCount_RawIdentifierModule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"lib.rs":  "mod r#type;\n",
		"type.rs": "struct Kind;\nimpl Kind { pub fn id() {} }\n",
	})

	tree := parseFile(t, filepath.Join(dir, "lib.rs"))
	table, err := newTestCounter(t).Count(t.Context(), tree, dir)
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"Kind": {Public: 1}}, table)
}

func TestCount_ModuleParseFailurePropagates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"lib.rs":    "mod broken;\n",
		"broken.rs": "impl Broken { pub fn ( }\n",
	})

	tree := parseFile(t, filepath.Join(dir, "lib.rs"))
	table, err := newTestCounter(t).Count(t.Context(), tree, dir)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, parsers.ErrSyntax))
	assert.Contains(t, err.Error(), "broken.rs")
}

func TestNewAssociatedMemberCounter_InvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	_, err := NewAssociatedMemberCounter(parsers.NewRustParser(), CounterOptions{Ignore: []string{"[unclosed"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestCount_FixtureCrate(t *testing.T) {
	t.Parallel()

	path := filepath.Join("testdata", "one", "main.rs")
	tree := parseFile(t, path)

	table, err := newTestCounter(t).Count(t.Context(), tree, filepath.Dir(path))
	require.NoError(t, err)

	assert.Equal(t, AssociatedMemberTable{"Tstruct": {Public: 1, Private: 3}}, table)
}
