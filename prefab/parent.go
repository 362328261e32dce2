package prefab

import "github.com/plus3/prefab/world"

// ParentTypeName is the stable name the hierarchy component registers under.
const ParentTypeName = "prefab.Parent"

// Parent records the hierarchy link of a captured record. Inside a snapshot
// the reference carries the parent's local id; the post-write rewrite pass
// translates it to a live record and restores the world link.
type Parent struct {
	Record world.RecordId `yaml:"record"`
}

// RegisterParent adds the hierarchy component to a registry.
//
// Capture reads the world's parent link, so only linked records carry the
// component; records without one are taken for instance roots by the
// spawner's deferred attachment. That heuristic misfires if a non-root record
// legitimately has no parent at spawn time, which is accepted.
func RegisterParent(r *Registry) *Registration {
	return Register[Parent](r,
		WithExtract(func(w *world.World, id world.RecordId) (any, bool) {
			parent, ok := w.ParentOf(id)
			if !ok {
				return nil, false
			}
			return &Parent{Record: parent}, true
		}),
		WithMapRecords(func(w *world.World, remap *RemapTable, records []world.RecordId) {
			for _, id := range records {
				v, ok := w.Value(id, ParentTypeName)
				if !ok {
					continue
				}
				p := v.(*Parent)
				mapped, ok := remap.Get(p.Record.Index())
				if !ok {
					// Reference leads outside the snapshot; left as captured.
					continue
				}
				p.Record = mapped
				w.AttachParent(mapped, id)
			}
		}),
	)
}
