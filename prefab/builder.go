package prefab

import "github.com/plus3/prefab/world"

// Builder captures live records into a Snapshot.
//
// Only types with a capture function in the registry are read, and values are
// cloned on the way out; the live collection is never mutated.
type Builder struct {
	entities map[uint32]*SnapshotEntity
	order    []uint32
	registry *Registry
	world    *world.World
}

// NewBuilder prepares a builder that extracts records from the given world
// through the given registry.
func NewBuilder(w *world.World, registry *Registry) *Builder {
	return &Builder{
		entities: make(map[uint32]*SnapshotEntity),
		registry: registry,
		world:    w,
	}
}

// Extract captures the given records. The local id assigned to each entity is
// the record identity's stable index. Re-extracting a record that was already
// captured has no effect.
func (b *Builder) Extract(ids ...world.RecordId) *Builder {
	for _, id := range ids {
		local := id.Index()
		if _, done := b.entities[local]; done {
			continue
		}

		entity := &SnapshotEntity{LocalId: local}
		for _, reg := range b.registry.order {
			if reg.extract == nil {
				continue
			}
			if v, ok := reg.extract(b.world, id); ok {
				entity.Values = append(entity.Values, Value{TypeName: reg.name, Data: v})
			}
		}

		b.entities[local] = entity
		b.order = append(b.order, local)
	}
	return b
}

// Build produces a Snapshot with entities in first extraction order.
func (b *Builder) Build() *Snapshot {
	snap := &Snapshot{Entities: make([]SnapshotEntity, 0, len(b.order))}
	for _, local := range b.order {
		snap.Entities = append(snap.Entities, *b.entities[local])
	}
	return snap
}
