package decoder

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rowtree/rowtree/internal/config"
	"github.com/rowtree/rowtree/internal/encoder"
	"github.com/rowtree/rowtree/internal/errors"
	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonValue unmarshals text the same way the parser does, so numeric leaves
// compare as json.Number on both sides.
func jsonValue(t *testing.T, text string) interface{} {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v interface{}
	require.NoError(t, dec.Decode(&v))
	return v
}

func columns(nodes models.NodeList) (paths, names, values []string) {
	for _, n := range nodes {
		paths = append(paths, n.Path)
		names = append(names, n.Name)
		values = append(values, n.Value)
	}
	return paths, names, values
}

func decodeRows(t *testing.T, cfg *config.Config, paths, names, values []string, q models.SelectionQuery) string {
	t.Helper()
	out, err := New(cfg).Decode(paths, names, values, q)
	require.NoError(t, err)
	return out
}

func TestDecode_PrimitiveArrayRows(t *testing.T) {
	out := decodeRows(t, config.NewConfig(),
		[]string{"tags", "tags.x", "tags.y"},
		[]string{"tags", "x", "y"},
		[]string{"", "", ""},
		models.SelectionQuery{})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"tags":["x","y"]}`), jsonValue(t, out)))
}

func TestDecode_LengthMismatch(t *testing.T) {
	_, err := New(config.NewConfig()).Decode(
		[]string{"a", "b"},
		[]string{"a"},
		[]string{"", ""},
		models.SelectionQuery{})

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRowLengths)
}

func TestDecode_WeakRoundTrip(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":{"c":2}}`,
		`{"tags":["x","y"]}`,
		`{"rows":[{"id":1},{"id":2}]}`,
		`{"name":"Ada","active":true,"score":9.5,"note":null}`,
		`{"profile":{"links":["home","blog"],"age":36}}`,
	}
	cfg := config.NewConfig()
	for _, input := range inputs {
		ir, err := parser.ParseString(input)
		require.NoError(t, err, input)
		nodes, err := encoder.New(cfg).Encode(ir)
		require.NoError(t, err, input)

		paths, names, values := columns(nodes)
		out := decodeRows(t, cfg, paths, names, values, models.SelectionQuery{})

		assert.Empty(t, cmp.Diff(jsonValue(t, input), jsonValue(t, out)), "round trip of %s", input)
	}
}

func TestDecode_SelectionRestrictsOutput(t *testing.T) {
	out := decodeRows(t, config.NewConfig(),
		[]string{"a", "a.b", "a.b.c", "d"},
		[]string{"a", "b", "c", "d"},
		[]string{"", "", "1", "x"},
		models.SelectionQuery{SelectedPaths: []string{"a.b.c"}, DescendantDepth: 0})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"a":{"b":{"c":1}}}`), jsonValue(t, out)))
}

func TestDecode_EmptyValueNoChildrenBecomesNull(t *testing.T) {
	out := decodeRows(t, config.NewConfig(),
		[]string{"a", "b"},
		[]string{"a", "b"},
		[]string{"", "x"},
		models.SelectionQuery{})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"a":null,"b":"x"}`), jsonValue(t, out)))
}

func TestDecode_IndexedScalarsWithPadding(t *testing.T) {
	out := decodeRows(t, config.NewConfig(),
		[]string{"nums", "nums.0", "nums.2"},
		[]string{"nums", "0", "2"},
		[]string{"", "a", "b"},
		models.SelectionQuery{})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"nums":["a",null,"b"]}`), jsonValue(t, out)))
}

func TestDecode_NestedArrayElements(t *testing.T) {
	// matrix.0 carries value-keyed primitive children and is itself
	// classified as an array through the catalog
	cfg := config.NewConfig()
	cfg.Classifier.Catalog = append(cfg.Classifier.Catalog, "matrix.0")

	out := decodeRows(t, cfg,
		[]string{"matrix", "matrix.0", "matrix.0.x", "matrix.0.y"},
		[]string{"matrix", "0", "x", "y"},
		[]string{"", "", "x", "y"},
		models.SelectionQuery{})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"matrix":[["x","y"]]}`), jsonValue(t, out)))
}

func TestDecode_DuplicatePathsLastRowWins(t *testing.T) {
	out := decodeRows(t, config.NewConfig(),
		[]string{"a", "a"},
		[]string{"a", "a"},
		[]string{"1", "2"},
		models.SelectionQuery{})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"a":2}`), jsonValue(t, out)))
}

func TestDecode_RepairUpgradesNamedCollection(t *testing.T) {
	paths := []string{
		"filmography",
		"filmography.Heat", "filmography.Heat.year", "filmography.Heat.role",
		"filmography.Ronin", "filmography.Ronin.year",
	}
	names := []string{"filmography", "Heat", "year", "role", "Ronin", "year"}
	values := []string{"", "", "1995", "Neil", "", "1998"}

	out := decodeRows(t, config.NewConfig(), paths, names, values, models.SelectionQuery{})

	want := `{"filmography":{
		"Heat":{"year":1995,"role":"Neil"},
		"Ronin":{"year":1998}
	}}`
	assert.Empty(t, cmp.Diff(jsonValue(t, want), jsonValue(t, out)))
}

func TestDecode_RepairDisabledKeepsStringArray(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Repair.Enabled = false

	out := decodeRows(t, cfg,
		[]string{"filmography", "filmography.Heat", "filmography.Heat.year"},
		[]string{"filmography", "Heat", "year"},
		[]string{"", "", "1995"},
		models.SelectionQuery{})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"filmography":["Heat"]}`), jsonValue(t, out)))
}

func TestDecode_FallbackSweepSalvagesGrandchildren(t *testing.T) {
	// The direct child carries neither value nor name, so the sweep pulls
	// scalar content one level down.
	out := decodeRows(t, config.NewConfig(),
		[]string{"list", "list.x", "list.x.val"},
		[]string{"list", "", "val"},
		[]string{"", "", "5"},
		models.SelectionQuery{})

	assert.Empty(t, cmp.Diff(jsonValue(t, `{"list":[5]}`), jsonValue(t, out)))
}

func TestDecode_DepthGuard(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Limits.MaxDepth = 2

	_, err := New(cfg).Decode(
		[]string{"items", "items.0", "items.0.a", "items.0.a.b"},
		[]string{"items", "0", "a", "b"},
		[]string{"", "", "", "1"},
		models.SelectionQuery{})

	assert.Error(t, err)
}

func TestDecode_OutputIsTwoSpaceIndented(t *testing.T) {
	out := decodeRows(t, config.NewConfig(),
		[]string{"a"}, []string{"a"}, []string{"1"},
		models.SelectionQuery{})

	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}
