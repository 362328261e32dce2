package world

import "github.com/kamstrup/intmap"

const columnBlockSize = 64

// column stores the type-erased values of a single component type.
// Values live in fixed-size blocks so attaching does not move earlier
// entries; an index map translates record indices to storage positions
// and freed positions are reused.
type column struct {
	byRecord  *intmap.Map[uint32, int]
	blocks    [][columnBlockSize]any
	freeSlots []int
	nextIndex int
}

func newColumn() *column {
	return &column{
		byRecord: intmap.New[uint32, int](columnBlockSize),
	}
}

// put stores a value for the given record index, replacing any existing one.
func (c *column) put(record uint32, item any) {
	if pos, ok := c.byRecord.Get(record); ok {
		c.blocks[pos/columnBlockSize][pos%columnBlockSize] = item
		return
	}

	var pos int
	if n := len(c.freeSlots); n > 0 {
		pos = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		pos = c.nextIndex
		c.nextIndex++
		if pos/columnBlockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, [columnBlockSize]any{})
		}
	}

	c.blocks[pos/columnBlockSize][pos%columnBlockSize] = item
	c.byRecord.Put(record, pos)
}

func (c *column) get(record uint32) (any, bool) {
	pos, ok := c.byRecord.Get(record)
	if !ok {
		return nil, false
	}
	return c.blocks[pos/columnBlockSize][pos%columnBlockSize], true
}

func (c *column) del(record uint32) {
	pos, ok := c.byRecord.Get(record)
	if !ok {
		return
	}
	c.blocks[pos/columnBlockSize][pos%columnBlockSize] = nil
	c.freeSlots = append(c.freeSlots, pos)
	c.byRecord.Del(record)
}

func (c *column) has(record uint32) bool {
	_, ok := c.byRecord.Get(record)
	return ok
}
