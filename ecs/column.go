package ecs

import "iter"

// column is the type-erased storage for one component type of one archetype.
// Slot indices are stable until Compact.
type column interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

const blockSize = 64

// blockColumn keeps components in fixed-size blocks so pointers handed out by
// Get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks    [][blockSize]T
	filled    [][blockSize]bool
	freeSlots []int
	nextIndex int
}

func slot(index int) (block, offset int) {
	return index / blockSize, index % blockSize
}

func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.nextIndex
		c.nextIndex++
	}

	b, o := slot(index)
	for b >= len(c.blocks) {
		c.blocks = append(c.blocks, [blockSize]T{})
		c.filled = append(c.filled, [blockSize]bool{})
	}
	c.blocks[b][o] = value
	c.filled[b][o] = true
	return index
}

func (c *blockColumn[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	b, o := slot(index)
	return b < len(c.filled) && c.filled[b][o]
}

// Get returns a *T into the column, or nil for an empty slot.
func (c *blockColumn[T]) Get(index int) any {
	if !c.Has(index) {
		return nil
	}
	b, o := slot(index)
	return &c.blocks[b][o]
}

func (c *blockColumn[T]) Delete(index int) {
	if !c.Has(index) {
		return
	}
	b, o := slot(index)
	var zero T
	c.blocks[b][o] = zero
	c.filled[b][o] = false
	c.freeSlots = append(c.freeSlots, index)
}

func (c *blockColumn[T]) Len() int {
	return c.nextIndex - len(c.freeSlots)
}

// Compact packs live components to the front and returns old->new indices.
func (c *blockColumn[T]) Compact() map[int]int {
	moved := make(map[int]int)
	live := c.Len()
	if live == 0 {
		c.blocks = nil
		c.filled = nil
		c.freeSlots = nil
		c.nextIndex = 0
		return moved
	}

	n := (live + blockSize - 1) / blockSize
	blocks := make([][blockSize]T, n)
	filled := make([][blockSize]bool, n)

	write := 0
	for read := range c.Iter() {
		rb, ro := slot(read)
		wb, wo := slot(write)
		blocks[wb][wo] = c.blocks[rb][ro]
		filled[wb][wo] = true
		moved[read] = write
		write++
	}

	c.blocks = blocks
	c.filled = filled
	c.freeSlots = nil
	c.nextIndex = write
	return moved
}

func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.nextIndex; i++ {
			if c.Has(i) && !yield(i) {
				return
			}
		}
	}
}
