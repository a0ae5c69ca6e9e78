// Package selector computes the set of paths to materialize for a
// reconstruction call: selected seeds, their ancestor chains, optionally
// siblings, and a depth-bounded breadth-first expansion of descendants.
package selector

import (
	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/pathcodec"
)

// Select computes the include set. paths is the full known path set in
// insertion order; children maps a parent path (empty string for the root)
// to its ordered child paths. An empty query includes everything; selected
// paths not present in the known set are skipped without error.
func Select(q models.SelectionQuery, paths []string, children map[string][]string) map[string]struct{} {
	include := make(map[string]struct{}, len(paths))
	if q.IsEmpty() {
		for _, p := range paths {
			include[p] = struct{}{}
		}
		return include
	}

	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}

	for _, selected := range q.SelectedPaths {
		if _, ok := known[selected]; !ok {
			continue
		}
		include[selected] = struct{}{}

		// Ancestor chain up to the root, whether or not each ancestor
		// has a row of its own.
		for p := pathcodec.ParentPath(selected); p != ""; p = pathcodec.ParentPath(p) {
			include[p] = struct{}{}
		}

		if q.IncludeSiblings {
			for _, sibling := range children[pathcodec.ParentPath(selected)] {
				include[sibling] = struct{}{}
			}
		}

		if q.DescendantDepth > 0 {
			frontier := children[selected]
			for level := 1; level <= q.DescendantDepth && len(frontier) > 0; level++ {
				var next []string
				for _, p := range frontier {
					include[p] = struct{}{}
					next = append(next, children[p]...)
				}
				frontier = next
			}
		}
	}

	return include
}
