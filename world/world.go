package world

import "iter"

// World is a minimal live record store: stable record identities, type-erased
// component values addressed by type name, and parent links between records.
//
// Identities stay valid across attach and detach. Destroying a record bumps
// the slot generation, so a stale RecordId held by a caller never resolves to
// the slot's next occupant.
type World struct {
	slots   []slot
	free    []uint32
	columns map[string]*column
	alive   int
}

type slot struct {
	generation uint32
	alive      bool
	parent     RecordId
}

// New creates an empty World.
func New() *World {
	return &World{
		columns: make(map[string]*column),
	}
}

// NewRecord creates a new empty record and returns its identity.
func (w *World) NewRecord() RecordId {
	if n := len(w.free); n > 0 {
		index := w.free[n-1]
		w.free = w.free[:n-1]
		w.slots[index].alive = true
		w.slots[index].parent = 0
		w.alive++
		return NewRecordId(w.slots[index].generation, index)
	}

	index := uint32(len(w.slots))
	w.slots = append(w.slots, slot{generation: 1, alive: true})
	w.alive++
	return NewRecordId(1, index)
}

// Alive reports whether the identity refers to a live record.
func (w *World) Alive(id RecordId) bool {
	index := id.Index()
	if int(index) >= len(w.slots) {
		return false
	}
	s := w.slots[index]
	return s.alive && s.generation == id.Generation()
}

// Destroy removes a record and every value attached to it.
// The slot is recycled under a new generation.
func (w *World) Destroy(id RecordId) {
	if !w.Alive(id) {
		return
	}
	index := id.Index()
	for _, c := range w.columns {
		c.del(index)
	}
	w.slots[index].alive = false
	w.slots[index].parent = 0
	w.slots[index].generation++
	w.free = append(w.free, index)
	w.alive--
}

// Attach stores a value on the record under the given type name, replacing
// any existing value of that type. The value should be a pointer to the
// concrete component so in-place application through the registry works.
func (w *World) Attach(id RecordId, typeName string, value any) {
	if !w.Alive(id) {
		return
	}
	c := w.columns[typeName]
	if c == nil {
		c = newColumn()
		w.columns[typeName] = c
	}
	c.put(id.Index(), value)
}

// Detach removes the value of the given type from the record.
func (w *World) Detach(id RecordId, typeName string) {
	if !w.Alive(id) {
		return
	}
	if c := w.columns[typeName]; c != nil {
		c.del(id.Index())
	}
}

// Value returns the value of the given type attached to the record.
func (w *World) Value(id RecordId, typeName string) (any, bool) {
	if !w.Alive(id) {
		return nil, false
	}
	c := w.columns[typeName]
	if c == nil {
		return nil, false
	}
	return c.get(id.Index())
}

// Has reports whether the record holds a value of the given type.
func (w *World) Has(id RecordId, typeName string) bool {
	if !w.Alive(id) {
		return false
	}
	c := w.columns[typeName]
	return c != nil && c.has(id.Index())
}

// Count returns the number of live records.
func (w *World) Count() int {
	return w.alive
}

// Records iterates over all live record identities in index order.
func (w *World) Records() iter.Seq[RecordId] {
	return func(yield func(RecordId) bool) {
		for index := range w.slots {
			s := w.slots[index]
			if !s.alive {
				continue
			}
			if !yield(NewRecordId(s.generation, uint32(index))) {
				return
			}
		}
	}
}

// AttachParent links child to parent. A record has at most one parent;
// relinking replaces the previous link.
func (w *World) AttachParent(parent, child RecordId) {
	if !w.Alive(parent) || !w.Alive(child) {
		return
	}
	w.slots[child.Index()].parent = parent
}

// HasParent reports whether the record is linked to a live parent.
func (w *World) HasParent(id RecordId) bool {
	_, ok := w.ParentOf(id)
	return ok
}

// ParentOf returns the record's parent link, if any.
func (w *World) ParentOf(id RecordId) (RecordId, bool) {
	if !w.Alive(id) {
		return 0, false
	}
	parent := w.slots[id.Index()].parent
	if parent.IsNone() || !w.Alive(parent) {
		return 0, false
	}
	return parent, true
}
