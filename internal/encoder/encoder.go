// Package encoder flattens a parsed JSON value into a list of path-addressed
// node rows. Object properties become path segments; primitive array
// elements are keyed by their stringified value while container elements are
// keyed by their numeric index. Paths are deduplicated call-wide: the first
// occurrence of a path wins and later ones are silently dropped, so two
// primitive siblings with the same string form collapse into one row.
package encoder

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/rowtree/rowtree/internal/config"
	"github.com/rowtree/rowtree/internal/errors"
	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/pathcodec"
)

// Encoder flattens JSON values into node rows.
type Encoder struct {
	maxDepth int
	debug    bool
}

// New creates an Encoder from configuration.
func New(cfg *config.Config) *Encoder {
	return &Encoder{
		maxDepth: cfg.Limits.MaxDepth,
		debug:    cfg.Dev.Debug,
	}
}

// Encode walks the parsed value and returns its rows sorted by
// non-decreasing depth. The root itself is never materialized; encoding a
// bare primitive yields an empty list.
func (e *Encoder) Encode(ir models.IntermediateRepresentation) (models.NodeList, error) {
	w := &walk{
		visited:  make(map[string]struct{}),
		maxDepth: e.maxDepth,
	}

	if err := w.value(ir.Root, "", 0); err != nil {
		return nil, errors.NewEncodeError("failed to flatten JSON value", err)
	}

	// Stable sort keeps sibling insertion order within each depth.
	sort.SliceStable(w.nodes, func(i, j int) bool {
		return w.nodes[i].Depth < w.nodes[j].Depth
	})

	if e.debug {
		fmt.Fprintf(os.Stderr, "encoder: emitted %d nodes from %d visited paths\n", len(w.nodes), len(w.visited))
	}

	return w.nodes, nil
}

// walk carries the call-scoped traversal state: the emitted rows and the
// global visited-path set backing the first-occurrence-wins dedup.
type walk struct {
	nodes    models.NodeList
	visited  map[string]struct{}
	maxDepth int
}

func (w *walk) value(v models.JSONValue, parentPath string, level int) error {
	if level > w.maxDepth {
		return errors.ErrDepthExceeded
	}

	switch val := v.(type) {
	case models.JSONObject:
		// Sorted keys keep sibling order deterministic across runs.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := val[k]
			path := pathcodec.Join(parentPath, k)
			w.emit(path, leafString(child), parentPath)
			if isContainer(child) {
				if err := w.value(child, path, level+1); err != nil {
					return err
				}
			}
		}
	case models.JSONArray:
		for i, elem := range val {
			if isContainer(elem) {
				// Container elements keep their numeric index as the
				// segment and get an empty-valued index node.
				path := pathcodec.Join(parentPath, strconv.Itoa(i))
				w.emit(path, "", parentPath)
				if err := w.value(elem, path, level+1); err != nil {
					return err
				}
				continue
			}
			// Primitive elements are keyed by their own string form.
			s := leafString(elem)
			w.emit(pathcodec.Join(parentPath, s), s, parentPath)
		}
	default:
		// A primitive root has no path to hang a node on.
	}
	return nil
}

// emit appends a row for path unless the path was already produced by any
// earlier branch of this call.
func (w *walk) emit(path, value, parentPath string) {
	if _, seen := w.visited[path]; seen {
		return
	}
	w.visited[path] = struct{}{}
	w.nodes = append(w.nodes, models.Node{
		Name:             pathcodec.LastSegment(path),
		Value:            value,
		ImportParentPath: parentPath,
		Parent:           pathcodec.LastSegment(parentPath),
		Path:             path,
		Depth:            pathcodec.Depth(path),
	})
}

func isContainer(v models.JSONValue) bool {
	switch v.(type) {
	case models.JSONObject, models.JSONArray:
		return true
	}
	return false
}

// leafString renders a primitive for the value column. Containers render
// empty; null renders as the literal string "null", which is asymmetric
// with containers on purpose.
func leafString(v models.JSONValue) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case string:
		return val
	case models.JSONObject, models.JSONArray:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
