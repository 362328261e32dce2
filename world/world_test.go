package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/prefab/world"
)

type position struct {
	X, Y float32
}

type name struct {
	Value string
}

func TestRecordLifecycle(t *testing.T) {
	w := world.New()

	id := w.NewRecord()
	assert.True(t, w.Alive(id))
	assert.Equal(t, 1, w.Count())

	w.Attach(id, "position", &position{X: 1, Y: 2})
	assert.True(t, w.Has(id, "position"))

	v, ok := w.Value(id, "position")
	assert.True(t, ok)
	assert.Equal(t, float32(1), v.(*position).X)

	w.Detach(id, "position")
	assert.False(t, w.Has(id, "position"))
	_, ok = w.Value(id, "position")
	assert.False(t, ok)

	w.Destroy(id)
	assert.False(t, w.Alive(id))
	assert.Equal(t, 0, w.Count())
}

func TestStaleIdentityAfterReuse(t *testing.T) {
	w := world.New()

	old := w.NewRecord()
	w.Attach(old, "name", &name{Value: "first"})
	w.Destroy(old)

	// The freed slot is recycled under a new generation.
	fresh := w.NewRecord()
	assert.Equal(t, old.Index(), fresh.Index())
	assert.NotEqual(t, old, fresh)

	assert.False(t, w.Alive(old))
	assert.True(t, w.Alive(fresh))

	// Values attached to the old occupant must not leak to the new one.
	assert.False(t, w.Has(fresh, "name"))
	_, ok := w.Value(old, "name")
	assert.False(t, ok)
}

func TestAttachReplacesValue(t *testing.T) {
	w := world.New()

	id := w.NewRecord()
	w.Attach(id, "name", &name{Value: "a"})
	w.Attach(id, "name", &name{Value: "b"})

	v, ok := w.Value(id, "name")
	assert.True(t, ok)
	assert.Equal(t, "b", v.(*name).Value)
}

func TestRecordsIteration(t *testing.T) {
	w := world.New()

	a := w.NewRecord()
	b := w.NewRecord()
	c := w.NewRecord()
	w.Destroy(b)

	seen := make([]world.RecordId, 0, 2)
	for id := range w.Records() {
		seen = append(seen, id)
	}
	assert.Equal(t, []world.RecordId{a, c}, seen)
}

func TestParentLinks(t *testing.T) {
	w := world.New()

	parent := w.NewRecord()
	child := w.NewRecord()

	assert.False(t, w.HasParent(child))

	w.AttachParent(parent, child)
	assert.True(t, w.HasParent(child))

	got, ok := w.ParentOf(child)
	assert.True(t, ok)
	assert.Equal(t, parent, got)

	// The link dies with the parent.
	w.Destroy(parent)
	assert.False(t, w.HasParent(child))
}

func TestParentRelink(t *testing.T) {
	w := world.New()

	first := w.NewRecord()
	second := w.NewRecord()
	child := w.NewRecord()

	w.AttachParent(first, child)
	w.AttachParent(second, child)

	got, ok := w.ParentOf(child)
	assert.True(t, ok)
	assert.Equal(t, second, got)
}

func TestManyRecordsAcrossBlocks(t *testing.T) {
	w := world.New()

	ids := make([]world.RecordId, 0, 200)
	for i := 0; i < 200; i++ {
		id := w.NewRecord()
		w.Attach(id, "position", &position{X: float32(i)})
		ids = append(ids, id)
	}

	for i, id := range ids {
		v, ok := w.Value(id, "position")
		assert.True(t, ok)
		assert.Equal(t, float32(i), v.(*position).X)
	}

	for _, id := range ids[:100] {
		w.Destroy(id)
	}
	assert.Equal(t, 100, w.Count())

	// Freed slots are reused for new records.
	reused := w.NewRecord()
	assert.Less(t, int(reused.Index()), 100)
	assert.True(t, w.Alive(reused))
}
