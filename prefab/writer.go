package prefab

import (
	"maps"
	"slices"

	"github.com/plus3/prefab/world"
)

// Write merges a snapshot and a patch into the live collection, resolving
// records through the remap table. It is usable on its own, without a
// Spawner; the spawner's spawn and hot-update paths are both this call.
//
// Snapshot entities are processed in snapshot order: each resolves its record
// through remap (creating one on first sight), then its values followed by
// the patch's append values are written, honoring the patch's remove and
// modify overrides. Patch entities with no snapshot counterpart still produce
// records carrying their append values. Once everything is created and
// applied, each reference-bearing type's rewrite function runs over the
// records it touched, so forward references inside the snapshot resolve.
//
// The first error stops the call; records mutated earlier in the same call
// stay mutated. Callers that need atomicity must capture the collection
// beforehand and restore it themselves.
func Write(patch *Patch, snap *Snapshot, w *world.World, registry *Registry, remap *RemapTable) error {
	if patch == nil {
		patch = &Patch{}
	}

	patchByID := make(map[uint32]*PatchEntity, len(patch.Modify))
	for i := range patch.Modify {
		patchByID[patch.Modify[i].LocalId] = &patch.Modify[i]
	}

	// Side table of records that received reference-bearing values this pass.
	touched := make(map[string][]world.RecordId)

	for i := range snap.Entities {
		entity := &snap.Entities[i]

		// Drain the patch entry before the ignore check: an ignored entity
		// must not be instantiated in the leftover pass either, whatever the
		// patch appends for it.
		pe := patchByID[entity.LocalId]
		delete(patchByID, entity.LocalId)

		if _, skip := patch.Ignore[entity.LocalId]; skip {
			continue
		}

		id := resolveRecord(w, remap, entity.LocalId)
		if err := writeValues(w, registry, id, entity.Values, pe, touched); err != nil {
			return err
		}
		if pe != nil {
			if err := writeValues(w, registry, id, pe.Append, pe, touched); err != nil {
				return err
			}
		}
	}

	// Whatever remains has no snapshot counterpart: create the record and
	// write the append values. There is nothing for remove or modify to act
	// against.
	for i := range patch.Modify {
		pe := &patch.Modify[i]
		if _, remaining := patchByID[pe.LocalId]; !remaining {
			continue
		}
		delete(patchByID, pe.LocalId)

		if _, skip := patch.Ignore[pe.LocalId]; skip {
			continue
		}

		id := resolveRecord(w, remap, pe.LocalId)
		if err := writeValues(w, registry, id, pe.Append, nil, touched); err != nil {
			return err
		}
	}

	// Reference rewrite runs last so references to entities created later in
	// the snapshot resolve.
	for _, reg := range registry.order {
		if reg.mapRecords == nil {
			continue
		}
		if records := touched[reg.name]; len(records) > 0 {
			reg.mapRecords(w, remap, records)
		}
	}
	return nil
}

// resolveRecord is the only place snapshot-sourced records are first created.
func resolveRecord(w *world.World, remap *RemapTable, local uint32) world.RecordId {
	if id, ok := remap.Get(local); ok {
		return id
	}
	id := w.NewRecord()
	remap.put(local, id)
	return id
}

func writeValues(w *world.World, registry *Registry, id world.RecordId, values []Value, pe *PatchEntity, touched map[string][]world.RecordId) error {
	for _, val := range values {
		data := val.Data

		if pe != nil {
			// Removal wins over everything else for this type.
			if _, removed := pe.Remove[val.TypeName]; removed {
				continue
			}
			if overrides := pe.Modify[val.TypeName]; len(overrides) > 0 {
				data = CloneValue(data)
				for _, path := range slices.Sorted(maps.Keys(overrides)) {
					if err := PathSet(data, path, overrides[path]); err != nil {
						return &BadPatchPathError{Path: path, Err: err}
					}
				}
			}
		}

		reg := registry.Lookup(val.TypeName)
		if reg == nil {
			return &UnregisteredTypeError{TypeName: val.TypeName}
		}

		switch {
		case reg.customInsert != nil:
			reg.customInsert(w, id, data)
		case !reg.component:
			return &UnregisteredComponentError{TypeName: val.TypeName}
		default:
			reg.applyInsert(w, id, data)
		}

		if reg.mapRecords != nil {
			touched[val.TypeName] = append(touched[val.TypeName], id)
		}
	}
	return nil
}
