package world

// RecordId encodes both the slot generation (upper 32 bits) and the record index (lower 32 bits)
type RecordId uint64

// NewRecordId creates a RecordId from a slot generation and record index
func NewRecordId(generation uint32, index uint32) RecordId {
	return RecordId(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the slot generation from the record ID
func (r RecordId) Generation() uint32 {
	return uint32(r >> 32)
}

// Index extracts the record index from the record ID
func (r RecordId) Index() uint32 {
	return uint32(r & 0xFFFFFFFF)
}

// IsNone reports whether this is the zero "no record" id. Live generations
// start at 1, so no valid record ever compares equal to it.
func (r RecordId) IsNone() bool {
	return r == 0
}
