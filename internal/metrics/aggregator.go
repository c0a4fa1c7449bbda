package metrics

import "maps"

// summable values combine additively on key collision.
type summable[V any] interface {
	Plus(V) V
}

// Merge folds src into dst: keys only in src are copied, colliding keys are
// summed. Counting is strictly additive, so the fold order of any set of
// tables does not change the result.
func Merge[K comparable, V summable[V]](dst, src map[K]V) {
	for key, value := range src {
		addInto(dst, key, value)
	}
}

func addInto[K comparable, V summable[V]](dst map[K]V, key K, value V) {
	if existing, ok := dst[key]; ok {
		dst[key] = existing.Plus(value)
		return
	}
	dst[key] = value
}

// Combine pairs the two tables into a Report. The tables are kept in separate
// namespaces: a function and a type with the same name never interact.
func Combine(complexity ComplexityTable, members AssociatedMemberTable) Report {
	return Report{
		complexity: maps.Clone(complexity),
		members:    maps.Clone(members),
	}
}
