package utils

import (
	"path/filepath"
	"sort"
	"strings"
)

// SliceToSet converts a slice of any comparable type to a set represented by a map[T]struct{}.
func SliceToSet[T comparable](slice []T) map[T]struct{} {
	set := make(map[T]struct{}, len(slice))
	for _, item := range slice {
		set[item] = struct{}{}
	}
	return set
}

// Difference returns the items of a that are not in b, sorted.
func Difference(a, b []string) []string {
	known := SliceToSet(b)
	out := make([]string, 0)
	for _, item := range a {
		if _, ok := known[item]; !ok {
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}

// HasExtFold reports whether name ends in ext, ignoring case.
func HasExtFold(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

// FilterExt returns the names with extension ext (case-insensitive), sorted and
// without duplicates.
func FilterExt(names []string, ext string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !HasExtFold(name, ext) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
