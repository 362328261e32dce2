package prefab

import (
	"iter"

	"github.com/kamstrup/intmap"

	"github.com/plus3/prefab/world"
)

// RemapTable maps snapshot-local ids to live record identities for one
// instance. Entries are only ever added: the first write pass that meets a
// local id allocates its record, later passes resolve to the same record so
// hot updates mutate in place instead of duplicating. The table is discarded
// as a whole when the instance despawns.
type RemapTable struct {
	records *intmap.Map[uint32, world.RecordId]
	ids     []world.RecordId
}

// NewRemapTable creates an empty remap table.
func NewRemapTable() *RemapTable {
	return &RemapTable{
		records: intmap.New[uint32, world.RecordId](16),
	}
}

// Get resolves a local id to its live record.
func (t *RemapTable) Get(local uint32) (world.RecordId, bool) {
	return t.records.Get(local)
}

// Len returns the number of mapped records.
func (t *RemapTable) Len() int {
	return len(t.ids)
}

// Records iterates over the mapped live records in allocation order.
func (t *RemapTable) Records() iter.Seq[world.RecordId] {
	return func(yield func(world.RecordId) bool) {
		for _, id := range t.ids {
			if !yield(id) {
				return
			}
		}
	}
}

func (t *RemapTable) put(local uint32, id world.RecordId) {
	t.records.Put(local, id)
	t.ids = append(t.ids, id)
}
