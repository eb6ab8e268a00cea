package ecs

import "reflect"

// Commands buffers structural changes made while systems iterate. The
// Scheduler flushes it once every system of the frame has run, in this order:
// deletes, component removals, component additions, spawns, deferred funcs.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues a new entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues removal of entity.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues adding (or replacing) a component on entity.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues removing the component of type compType from entity.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Defer queues fn to run last in the flush. fn may change storage directly.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Empty reports whether nothing is queued.
func (c *Commands) Empty() bool {
	return len(c.spawns) == 0 && len(c.deletes) == 0 && len(c.adds) == 0 &&
		len(c.removes) == 0 && len(c.defers) == 0
}

// Flush applies the queued operations to storage and resets the buffer.
// Operations on an entity deleted in the same flush are dropped, and an entity
// that moves archetype during the flush is followed to its new id.
func (c *Commands) Flush(storage *Storage) {
	refs := make(map[EntityId]*EntityRef, len(c.removes)+len(c.adds))
	track := func(id EntityId) {
		if _, ok := refs[id]; !ok {
			refs[id] = storage.CreateEntityRef(id)
		}
	}
	for _, cmd := range c.removes {
		track(cmd.entity)
	}
	for _, cmd := range c.adds {
		track(cmd.entity)
	}

	for _, id := range c.deletes {
		storage.Delete(id)
	}

	for _, cmd := range c.removes {
		if ref := refs[cmd.entity]; ref.Alive() {
			storage.RemoveComponent(ref.Id, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if ref := refs[cmd.entity]; ref.Alive() {
			storage.AddComponent(ref.Id, cmd.component)
		}
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
