package prefab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/prefab/prefab"
)

func TestCloneValueIsDeep(t *testing.T) {
	original := &Inventory{Items: []string{"sword", "shield"}}

	clone := prefab.CloneValue(original).(*Inventory)
	clone.Items[0] = "axe"
	clone.Items = append(clone.Items, "potion")

	assert.Equal(t, []string{"sword", "shield"}, original.Items)
	assert.Equal(t, []string{"axe", "shield", "potion"}, clone.Items)
}

func TestCloneValueCopiesMaps(t *testing.T) {
	original := &Stats{Attributes: map[string]int{"str": 10}}

	clone := prefab.CloneValue(original).(*Stats)
	clone.Attributes["str"] = 99
	clone.Attributes["dex"] = 5

	assert.Equal(t, map[string]int{"str": 10}, original.Attributes)
}

func TestApplyValue(t *testing.T) {
	dst := &Position{X: 1, Y: 2}
	src := &Position{X: 7, Y: 8}

	prefab.ApplyValue(dst, src)

	assert.Equal(t, &Position{X: 7, Y: 8}, dst)

	// Applying never aliases the source.
	src.X = 0
	assert.Equal(t, float32(7), dst.X)
}

func TestPathGet(t *testing.T) {
	v := &Inventory{Items: []string{"sword", "shield"}}

	got, err := prefab.PathGet(v, "items[1]")
	require.NoError(t, err)
	assert.Equal(t, "shield", got)
}

func TestPathSet(t *testing.T) {
	t.Run("simple field", func(t *testing.T) {
		v := &Position{X: 1, Y: 2}
		require.NoError(t, prefab.PathSet(v, "X", float32(5)))
		assert.Equal(t, &Position{X: 5, Y: 2}, v)
	})

	t.Run("case-insensitive wire name", func(t *testing.T) {
		v := &Position{}
		require.NoError(t, prefab.PathSet(v, "x", float32(5)))
		assert.Equal(t, float32(5), v.X)
	})

	t.Run("numeric conversion", func(t *testing.T) {
		v := &Position{}
		require.NoError(t, prefab.PathSet(v, "y", 3))
		assert.Equal(t, float32(3), v.Y)
	})

	t.Run("indexed element", func(t *testing.T) {
		v := &Inventory{Items: []string{"sword", "shield"}}
		require.NoError(t, prefab.PathSet(v, "items[0]", "axe"))
		assert.Equal(t, []string{"axe", "shield"}, v.Items)
	})

	t.Run("missing field", func(t *testing.T) {
		err := prefab.PathSet(&Position{}, "z", float32(1))
		assert.Error(t, err)
	})

	t.Run("index out of range", func(t *testing.T) {
		err := prefab.PathSet(&Inventory{Items: []string{"sword"}}, "items[4]", "axe")
		assert.Error(t, err)
	})

	t.Run("malformed path", func(t *testing.T) {
		err := prefab.PathSet(&Inventory{}, "items[", "axe")
		assert.Error(t, err)
	})
}
