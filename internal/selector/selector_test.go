package selector

import (
	"testing"

	"github.com/rowtree/rowtree/internal/models"
	"github.com/rowtree/rowtree/internal/pathcodec"
	"github.com/stretchr/testify/assert"
)

func childrenOf(paths []string) map[string][]string {
	children := map[string][]string{}
	for _, p := range paths {
		parent := pathcodec.ParentPath(p)
		children[parent] = append(children[parent], p)
	}
	return children
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func TestSelect_EmptyQueryIncludesEverything(t *testing.T) {
	paths := []string{"a", "a.b", "a.b.c", "d"}
	include := Select(models.SelectionQuery{}, paths, childrenOf(paths))
	assert.ElementsMatch(t, paths, keys(include))
}

func TestSelect_AncestorChainOnly(t *testing.T) {
	paths := []string{"a", "a.b", "a.b.c"}
	q := models.SelectionQuery{SelectedPaths: []string{"a.b.c"}, DescendantDepth: 0}
	include := Select(q, paths, childrenOf(paths))
	assert.ElementsMatch(t, []string{"a", "a.b", "a.b.c"}, keys(include))
}

func TestSelect_Siblings(t *testing.T) {
	paths := []string{"a", "a.b", "a.c", "a.c.x", "d"}
	q := models.SelectionQuery{SelectedPaths: []string{"a.b"}, IncludeSiblings: true}
	include := Select(q, paths, childrenOf(paths))
	// Siblings come in flat: a.c but not a.c.x
	assert.ElementsMatch(t, []string{"a", "a.b", "a.c"}, keys(include))
}

func TestSelect_RootLevelSiblings(t *testing.T) {
	paths := []string{"a", "b", "b.x"}
	q := models.SelectionQuery{SelectedPaths: []string{"a"}, IncludeSiblings: true}
	include := Select(q, paths, childrenOf(paths))
	assert.ElementsMatch(t, []string{"a", "b"}, keys(include))
}

func TestSelect_DescendantDepth(t *testing.T) {
	paths := []string{"a", "a.b", "a.b.c", "a.b.c.d", "a.e"}
	children := childrenOf(paths)

	q := models.SelectionQuery{SelectedPaths: []string{"a"}, DescendantDepth: 1}
	include := Select(q, paths, children)
	assert.ElementsMatch(t, []string{"a", "a.b", "a.e"}, keys(include))

	q.DescendantDepth = 2
	include = Select(q, paths, children)
	assert.ElementsMatch(t, []string{"a", "a.b", "a.e", "a.b.c"}, keys(include))

	q.DescendantDepth = 10
	include = Select(q, paths, children)
	assert.ElementsMatch(t, paths, keys(include))
}

func TestSelect_UnknownSeedSkipped(t *testing.T) {
	paths := []string{"a", "a.b"}
	q := models.SelectionQuery{SelectedPaths: []string{"nope", "a.b"}}
	include := Select(q, paths, childrenOf(paths))
	assert.ElementsMatch(t, []string{"a", "a.b"}, keys(include))
}

func TestSelect_MultipleSeedsUnion(t *testing.T) {
	paths := []string{"a", "a.b", "c", "c.d", "e"}
	q := models.SelectionQuery{SelectedPaths: []string{"a.b", "c.d"}}
	include := Select(q, paths, childrenOf(paths))
	assert.ElementsMatch(t, []string{"a", "a.b", "c", "c.d"}, keys(include))
}
