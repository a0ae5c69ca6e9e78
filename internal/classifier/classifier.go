// Package classifier decides, from a flattened path/value set alone, which
// paths denote JSON arrays rather than objects. A flat path list does not
// record that distinction, so this is a heuristic: independent named rules
// are matched per path and their results unioned into one set. The set only
// ever grows; a path once classified is never removed. The classifier can
// both over- and under-classify; the decoder's repair stages exist to catch
// some of the misses.
package classifier

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/rowtree/rowtree/internal/config"
	"github.com/rowtree/rowtree/internal/pathcodec"
)

// Input is the view of the flattened graph the rules match against.
type Input struct {
	// Paths in insertion order.
	Paths []string
	// Values maps each path to its stored value column.
	Values map[string]string
	// Children maps a parent path to its ordered child paths. The empty
	// string keys the root-level paths.
	Children map[string][]string
}

// Rule is one named, pure array-detection predicate.
type Rule struct {
	Name  string
	Match func(in *Input, path string) bool
}

// Rules returns the per-path predicate rules in evaluation order. Order
// does not affect the result since matches only accumulate.
func Rules(cfg *config.Config) []Rule {
	return []Rule{
		{Name: "plural-name", Match: pluralNameRule(cfg)},
		{Name: "uniform-children", Match: uniformChildrenRule(cfg)},
		{Name: "numeric-child", Match: numericChildRule()},
		{Name: "container-name", Match: containerNameRule(cfg)},
	}
}

// Classify runs every rule over every path, then applies the explicit
// catalog, and returns the union of all matches.
func Classify(cfg *config.Config, in *Input) map[string]struct{} {
	arrays := make(map[string]struct{})
	for _, rule := range Rules(cfg) {
		for _, path := range in.Paths {
			if rule.Match(in, path) {
				arrays[path] = struct{}{}
			}
		}
	}
	ApplyCatalog(cfg.Classifier.Catalog, in, arrays)
	return arrays
}

// ApplyCatalog adds each configured prefix to the set whenever any input
// path equals or is nested under it, regardless of what the lexical rules
// decided.
func ApplyCatalog(catalog []string, in *Input, arrays map[string]struct{}) {
	for _, prefix := range catalog {
		for _, path := range in.Paths {
			if pathcodec.IsUnder(path, prefix) {
				arrays[prefix] = struct{}{}
				break
			}
		}
	}
}

// normalize lowers a segment to snake_case so CamelCase keys match the
// lexical lists too.
func normalize(segment string) string {
	return strcase.ToSnake(segment)
}

func inList(s string, list []string) bool {
	for _, item := range list {
		if s == item {
			return true
		}
	}
	return false
}

// pluralNameRule marks a path with at least two children as an array when
// it carries no value of its own and its last segment reads as a plural:
// it ends in "s" or belongs to the configured irregular-plural list.
func pluralNameRule(cfg *config.Config) func(in *Input, path string) bool {
	nouns := cfg.Classifier.PluralNouns
	return func(in *Input, path string) bool {
		if len(in.Children[path]) < 2 {
			return false
		}
		if in.Values[path] != "" {
			return false
		}
		seg := normalize(pathcodec.LastSegment(path))
		return strings.HasSuffix(seg, "s") || inList(seg, nouns)
	}
}

// uniformChildrenRule marks a path with at least two structurally uniform
// children (same depth, and either none or all of them have grandchildren)
// whose last segment is on the array-hint list.
func uniformChildrenRule(cfg *config.Config) func(in *Input, path string) bool {
	hints := cfg.Classifier.ArrayHints
	return func(in *Input, path string) bool {
		children := in.Children[path]
		if len(children) < 2 {
			return false
		}
		if !inList(normalize(pathcodec.LastSegment(path)), hints) {
			return false
		}
		depth := pathcodec.Depth(children[0])
		withKids := 0
		for _, c := range children {
			if pathcodec.Depth(c) != depth {
				return false
			}
			if len(in.Children[c]) > 0 {
				withKids++
			}
		}
		return withKids == 0 || withKids == len(children)
	}
}

// numericChildRule marks any path with at least one all-digit child
// segment; index-keyed children only ever come from arrays.
func numericChildRule() func(in *Input, path string) bool {
	return func(in *Input, path string) bool {
		for _, c := range in.Children[path] {
			if pathcodec.IsIndex(pathcodec.LastSegment(c)) {
				return true
			}
		}
		return false
	}
}

// containerNameRule marks paths whose last segment is a generic container
// name such as "list" or "items".
func containerNameRule(cfg *config.Config) func(in *Input, path string) bool {
	names := cfg.Classifier.ContainerNames
	return func(in *Input, path string) bool {
		return inList(normalize(pathcodec.LastSegment(path)), names)
	}
}
