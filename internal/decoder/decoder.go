// Package decoder reconstructs a JSON value from flattened node rows,
// optionally restricted to a selected subgraph. Reconstruction runs in
// three ordered passes: a scaffold pass laying down typed leaves, nulls and
// container placeholders; an array population pass assembling the children
// of array-classified paths; and a configurable repair pass upgrading known
// collection prefixes that the classifier misread as plain string arrays.
package decoder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/rowtree/rowtree/internal/classifier"
	"github.com/rowtree/rowtree/internal/config"
	"github.com/rowtree/rowtree/internal/errors"
	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/pathcodec"
	"github.com/rowtree/rowtree/internal/selector"
)

// Decoder rebuilds JSON values from node rows.
type Decoder struct {
	cfg *config.Config
}

// New creates a Decoder from configuration.
func New(cfg *config.Config) *Decoder {
	return &Decoder{cfg: cfg}
}

// Decode validates the three row columns, classifies array parents, computes
// the include set for the query and reconstructs the value. The result is
// pretty-printed JSON with 2-space indentation. Any internal fault surfaces
// as a single error; no partial output is returned.
func (d *Decoder) Decode(paths, names, values []string, q models.SelectionQuery) (out string, err error) {
	// All-or-nothing contract: a fault anywhere in the passes must not
	// leak a panic or partial text past the call boundary.
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = errors.NewDecodeError(fmt.Sprintf("internal failure during reconstruction: %v", r), nil)
		}
	}()

	g, err := buildGraph(paths, names, values)
	if err != nil {
		return "", err
	}

	arrays := classifier.Classify(d.cfg, g.classifierInput())
	include := selector.Select(q, g.order, g.children)

	if d.cfg.Dev.Debug {
		fmt.Fprintf(os.Stderr, "decoder: %d rows, %d array-classified paths, %d included\n",
			len(g.order), len(arrays), len(include))
		fmt.Fprintf(os.Stderr, "decoder: query %s", spew.Sdump(q))
	}

	root, err := d.rebuild(g, arrays, include)
	if err != nil {
		return "", err
	}

	text, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", errors.NewDecodeError("failed to serialize reconstructed value", err)
	}
	return string(text), nil
}

// graph holds the per-call derived indices: the node map plus parent and
// children links, all keyed by path. Built once, immutable afterwards.
type graph struct {
	order    []string               // unique paths in first-seen order
	nodes    map[string]models.Node // NodeMap: path → row
	parents  map[string]string      // ParentMap: path → parent path
	children map[string][]string    // ChildrenMap: parent path → ordered child paths
}

// buildGraph indexes the three equal-length row columns. Duplicate paths
// overwrite earlier rows but keep their original position; blank paths are
// dropped since they address nothing.
func buildGraph(paths, names, values []string) (*graph, error) {
	if len(paths) != len(names) || len(paths) != len(values) {
		return nil, errors.NewInputError(
			fmt.Sprintf("got %d paths, %d names, %d values", len(paths), len(names), len(values)),
			errors.ErrRowLengths,
		)
	}

	g := &graph{
		nodes:    make(map[string]models.Node, len(paths)),
		parents:  make(map[string]string, len(paths)),
		children: make(map[string][]string),
	}
	for i, p := range paths {
		if p == "" {
			continue
		}
		parent := pathcodec.ParentPath(p)
		if _, exists := g.nodes[p]; !exists {
			g.order = append(g.order, p)
			g.parents[p] = parent
			g.children[parent] = append(g.children[parent], p)
		}
		g.nodes[p] = models.Node{
			Name:             names[i],
			Value:            values[i],
			ImportParentPath: parent,
			Parent:           pathcodec.LastSegment(parent),
			Path:             p,
			Depth:            pathcodec.Depth(p),
		}
	}
	return g, nil
}

func (g *graph) classifierInput() *classifier.Input {
	values := make(map[string]string, len(g.nodes))
	for p, n := range g.nodes {
		values[p] = n.Value
	}
	return &classifier.Input{
		Paths:    g.order,
		Values:   values,
		Children: g.children,
	}
}

// includedChildren returns the children of a path that survive selection.
func (g *graph) includedChildren(include map[string]struct{}, path string) []string {
	all := g.children[path]
	out := make([]string, 0, len(all))
	for _, c := range all {
		if _, ok := include[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// parentOf resolves a parent path through the ParentMap, falling back to
// string arithmetic for paths that have no row of their own.
func (g *graph) parentOf(path string) string {
	if p, ok := g.parents[path]; ok {
		return p
	}
	return pathcodec.ParentPath(path)
}
