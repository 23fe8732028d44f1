// Package util holds small generic helpers shared across headerstamp packages.
package util

import (
	"cmp"
	"maps"
	"slices"
)

// SortedKeys returns the keys of a map in sorted order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// SetOf builds a membership set from items. Empty items are skipped.
func SetOf[K comparable](items ...K) map[K]struct{} {
	var zero K
	set := make(map[K]struct{}, len(items))
	for _, item := range items {
		if item == zero {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}
