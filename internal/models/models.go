package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds the parsed JSON data in a form
// that's easy for the encoder to walk.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}

// Node is one flat row of a flattened JSON tree. Path uniquely identifies
// the node's position; Parent carries only the parent's last segment while
// ImportParentPath carries the full parent path used to relink rows during
// reconstruction. Value is empty for containers and array index nodes.
type Node struct {
	Name             string `json:"name"`
	Value            string `json:"value"`
	ImportParentPath string `json:"importParentPath,omitempty"`
	Parent           string `json:"parent,omitempty"`
	Path             string `json:"path"`
	Depth            int    `json:"depth"`
}

// NodeList is an ordered list of flattened rows. The encoder emits it in
// non-decreasing depth order so a front-to-back reader always sees a node's
// ancestors before the node itself.
type NodeList []Node

// SelectionQuery restricts reconstruction to a subgraph: each selected path
// contributes itself and its ancestor chain, optionally its siblings, and
// its descendants down to DescendantDepth levels (counted from 1 at direct
// children). An empty SelectedPaths means no restriction.
type SelectionQuery struct {
	SelectedPaths   []string
	IncludeSiblings bool
	DescendantDepth int
}

// IsEmpty reports whether the query selects the whole graph.
func (q SelectionQuery) IsEmpty() bool {
	return len(q.SelectedPaths) == 0
}
