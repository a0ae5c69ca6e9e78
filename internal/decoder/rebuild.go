package decoder

import (
	"sort"
	"strconv"

	"github.com/rowtree/rowtree/internal/errors"
	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/pathcodec"
	"github.com/rowtree/rowtree/internal/typeinfer"
)

// rebuild runs the three reconstruction passes over the include set and
// returns the root object.
func (d *Decoder) rebuild(g *graph, arrays, include map[string]struct{}) (models.JSONObject, error) {
	root := models.JSONObject{}

	d.scaffold(root, g, arrays, include)

	if err := d.populateArrays(root, g, arrays, include); err != nil {
		return nil, err
	}

	if d.cfg.Repair.Enabled {
		if err := d.repair(root, g, arrays, include); err != nil {
			return nil, err
		}
	}

	return root, nil
}

// scaffold lays down typed leaves, explicit nulls and container
// placeholders for every included path. Subtrees below an array-classified
// path are left to the population pass, which rebuilds them itself.
func (d *Decoder) scaffold(root models.JSONObject, g *graph, arrays, include map[string]struct{}) {
	for _, p := range sortedIncluded(g, include) {
		if hasArrayAncestor(g, arrays, p) {
			continue
		}
		if _, isArr := arrays[p]; isArr {
			setAtPath(root, p, models.JSONArray{})
			continue
		}
		n := g.nodes[p]
		switch {
		case n.Value != "":
			setAtPath(root, p, typeinfer.Guess(n.Value))
		case len(g.includedChildren(include, p)) == 0:
			setAtPath(root, p, nil)
		default:
			// Placeholder; descendants already scheduled will fill it.
			setAtPath(root, p, models.JSONObject{})
		}
	}
}

// populateArrays fills every top-level array placeholder. Nested arrays are
// handled by populate recursing through buildRecord, so paths under another
// array-classified path are skipped here.
func (d *Decoder) populateArrays(root models.JSONObject, g *graph, arrays, include map[string]struct{}) error {
	for _, ap := range sortedArrayPaths(arrays) {
		if hasArrayAncestor(g, arrays, ap) {
			continue
		}
		cur, ok := getAtPath(root, ap)
		if ok {
			if _, isArr := cur.(models.JSONArray); !isArr {
				continue
			}
		} else if len(g.includedChildren(include, ap)) == 0 {
			// Catalog entry with no surviving rows under it.
			continue
		}
		elems, err := d.populate(g, arrays, include, ap, pathcodec.Depth(ap))
		if err != nil {
			return err
		}
		setAtPath(root, ap, elems)
	}
	return nil
}

// populate assembles the elements of one array-classified path. Named
// children become de-duplicated scalars in first-seen order; indexed
// children land at their index with null padding, either as a type-guessed
// scalar or as a record rebuilt from their descendant rows. If that leaves
// the array empty despite surviving children, the fallback sweep salvages
// scalar content from the children (or grandchildren) directly.
func (d *Decoder) populate(g *graph, arrays, include map[string]struct{}, ap string, level int) (models.JSONArray, error) {
	if level > d.cfg.Limits.MaxDepth {
		return nil, errors.NewDecodeError("array population exceeded the depth limit", errors.ErrDepthExceeded)
	}

	children := g.includedChildren(include, ap)
	out := models.JSONArray{}

	for _, c := range children {
		if pathcodec.IsIndex(pathcodec.LastSegment(c)) {
			continue
		}
		n := g.nodes[c]
		scalar := n.Value
		if scalar == "" {
			scalar = n.Name
		}
		if scalar == "" {
			continue
		}
		out = appendUnique(out, typeinfer.Guess(scalar))
	}

	for _, c := range children {
		seg := pathcodec.LastSegment(c)
		if !pathcodec.IsIndex(seg) {
			continue
		}
		idx, err := strconv.Atoi(seg)
		if err != nil {
			// Digits too long for an int; nothing sane to place.
			continue
		}
		for len(out) <= idx {
			out = append(out, nil)
		}
		if len(g.includedChildren(include, c)) == 0 {
			out[idx] = typeinfer.Guess(g.nodes[c].Value)
			continue
		}
		if _, isArr := arrays[c]; isArr {
			// Nested array element: recurse this pass one level down.
			elems, err := d.populate(g, arrays, include, c, level+1)
			if err != nil {
				return nil, err
			}
			out[idx] = elems
			continue
		}
		record, err := d.buildRecord(g, arrays, include, c, level+1)
		if err != nil {
			return nil, err
		}
		out[idx] = record
	}

	if len(out) == 0 && len(children) > 0 && d.cfg.Repair.FallbackSweep {
		out = d.sweep(g, include, children)
	}

	return out, nil
}

// sweep is the empty-array salvage stage: children's own values or names
// become the scalar contents, falling back one level to grandchildren when
// a child carries neither.
func (d *Decoder) sweep(g *graph, include map[string]struct{}, children []string) models.JSONArray {
	out := models.JSONArray{}
	for _, c := range children {
		n := g.nodes[c]
		if n.Value != "" {
			out = appendUnique(out, typeinfer.Guess(n.Value))
			continue
		}
		if n.Name != "" {
			out = appendUnique(out, typeinfer.Guess(n.Name))
			continue
		}
		for _, gc := range g.includedChildren(include, c) {
			m := g.nodes[gc]
			scalar := m.Value
			if scalar == "" {
				scalar = m.Name
			}
			if scalar != "" {
				out = appendUnique(out, typeinfer.Guess(scalar))
			}
		}
	}
	return out
}

// buildRecord rebuilds an object element from its descendant rows. Nested
// array-classified paths recurse back through populate; nested plain
// objects are built by direct key assignment.
func (d *Decoder) buildRecord(g *graph, arrays, include map[string]struct{}, path string, level int) (models.JSONObject, error) {
	if level > d.cfg.Limits.MaxDepth {
		return nil, errors.NewDecodeError("record assembly exceeded the depth limit", errors.ErrDepthExceeded)
	}

	record := models.JSONObject{}
	for _, c := range g.includedChildren(include, path) {
		n := g.nodes[c]
		key := n.Name
		if key == "" {
			key = pathcodec.LastSegment(c)
		}
		if _, isArr := arrays[c]; isArr {
			elems, err := d.populate(g, arrays, include, c, level+1)
			if err != nil {
				return nil, err
			}
			record[key] = elems
			continue
		}
		if len(g.includedChildren(include, c)) > 0 {
			sub, err := d.buildRecord(g, arrays, include, c, level+1)
			if err != nil {
				return nil, err
			}
			record[key] = sub
			continue
		}
		if n.Value != "" {
			record[key] = typeinfer.Guess(n.Value)
		} else {
			record[key] = nil
		}
	}
	return record, nil
}

// repair upgrades configured collection prefixes: when reconstruction left
// a plain array of strings at the prefix but the rows also carry per-item
// property paths, the array is replaced by a map from item name to its
// rebuilt record. This is a last-chance correction for named collections
// the classifier misreads as simple string arrays.
func (d *Decoder) repair(root models.JSONObject, g *graph, arrays, include map[string]struct{}) error {
	for _, prefix := range d.cfg.Repair.Prefixes {
		cur, ok := getAtPath(root, prefix)
		if !ok {
			continue
		}
		arr, ok := cur.(models.JSONArray)
		if !ok || len(arr) == 0 || !allStrings(arr) {
			continue
		}

		children := g.includedChildren(include, prefix)
		richer := false
		for _, c := range children {
			if !pathcodec.IsIndex(pathcodec.LastSegment(c)) && len(g.includedChildren(include, c)) > 0 {
				richer = true
				break
			}
		}
		if !richer {
			continue
		}

		byName := models.JSONObject{}
		for _, c := range children {
			if pathcodec.IsIndex(pathcodec.LastSegment(c)) {
				continue
			}
			n := g.nodes[c]
			key := n.Name
			if key == "" {
				key = pathcodec.LastSegment(c)
			}
			if len(g.includedChildren(include, c)) > 0 {
				record, err := d.buildRecord(g, arrays, include, c, pathcodec.Depth(c))
				if err != nil {
					return err
				}
				byName[key] = record
			} else if n.Value != "" {
				byName[key] = typeinfer.Guess(n.Value)
			} else {
				byName[key] = nil
			}
		}
		setAtPath(root, prefix, byName)
	}
	return nil
}

// sortedIncluded returns the included node paths ordered by depth, keeping
// first-seen order within each depth so ancestors are materialized first.
func sortedIncluded(g *graph, include map[string]struct{}) []string {
	out := make([]string, 0, len(include))
	for _, p := range g.order {
		if _, ok := include[p]; ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return g.nodes[out[i]].Depth < g.nodes[out[j]].Depth
	})
	return out
}

// sortedArrayPaths orders the classification set by depth then
// lexicographically, for deterministic population.
func sortedArrayPaths(arrays map[string]struct{}) []string {
	out := make([]string, 0, len(arrays))
	for p := range arrays {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := pathcodec.Depth(out[i]), pathcodec.Depth(out[j])
		if di != dj {
			return di < dj
		}
		return out[i] < out[j]
	})
	return out
}

// hasArrayAncestor reports whether any strict ancestor of path is
// array-classified.
func hasArrayAncestor(g *graph, arrays map[string]struct{}, path string) bool {
	for p := g.parentOf(path); p != ""; p = g.parentOf(p) {
		if _, ok := arrays[p]; ok {
			return true
		}
	}
	return false
}

// setAtPath assigns a value at a dot path, creating intermediate objects as
// needed. A non-object already sitting on the way is left alone and the
// assignment is dropped, mirroring how assignment under a primitive no-ops
// in loosely typed hosts.
func setAtPath(root models.JSONObject, path string, v models.JSONValue) {
	segs := pathcodec.Segments(path)
	if len(segs) == 0 {
		return
	}
	cur := root
	for _, s := range segs[:len(segs)-1] {
		switch next := cur[s].(type) {
		case models.JSONObject:
			cur = next
		case nil:
			obj := models.JSONObject{}
			cur[s] = obj
			cur = obj
		default:
			return
		}
	}
	cur[segs[len(segs)-1]] = v
}

// getAtPath walks a dot path through nested objects.
func getAtPath(root models.JSONObject, path string) (models.JSONValue, bool) {
	var cur models.JSONValue = root
	for _, s := range pathcodec.Segments(path) {
		obj, ok := cur.(models.JSONObject)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[s]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func appendUnique(arr models.JSONArray, v models.JSONValue) models.JSONArray {
	for _, existing := range arr {
		if existing == v {
			return arr
		}
	}
	return append(arr, v)
}

func allStrings(arr models.JSONArray) bool {
	for _, v := range arr {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}
