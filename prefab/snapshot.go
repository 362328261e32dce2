package prefab

import "github.com/plus3/prefab/world"

// SnapshotEntity holds the captured values of one record. Its local id is
// unique only inside the owning snapshot; it is a transient key, not a live
// identity.
type SnapshotEntity struct {
	LocalId uint32
	Values  []Value
}

// Snapshot is a serializable capture of a set of records and their component
// values. It is immutable once built or decoded and may back any number of
// simultaneous instances.
type Snapshot struct {
	Entities []SnapshotEntity
}

// FromWorld captures every live record of the world into a new Snapshot.
func FromWorld(w *world.World, registry *Registry) *Snapshot {
	b := NewBuilder(w, registry)
	for id := range w.Records() {
		b.Extract(id)
	}
	return b.Build()
}

// PatchEntity overrides one snapshot entity at write time.
//
// Append values are instantiated after the snapshot's own values. Modify maps
// a type name to field-path overrides applied onto a clone of the value.
// Remove suppresses a type entirely and wins over Modify for the same name.
type PatchEntity struct {
	LocalId uint32
	Append  []Value
	Modify  map[string]map[string]any
	Remove  map[string]struct{}
}

// Patch is a set of per-entity overrides applied on top of a snapshot during
// a write. Entities whose local id is in Ignore are not instantiated at all.
// The zero value instantiates the snapshot verbatim.
type Patch struct {
	// Path is carried for diagnostics only.
	Path   string
	Modify []PatchEntity
	Ignore map[uint32]struct{}
}
