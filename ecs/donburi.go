// Package ecs provides ECS adapters for sapling.
package ecs

import (
	"github.com/phanxgames/sapling"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// TouchEventType is the Donburi event type for UI touch events.
// Subscribe to this in your ECS systems to receive down, drag and up events.
var TouchEventType = events.NewEventType[sapling.TouchEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a TouchSink backed by a Donburi world. Touch events
// are published to TouchEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) sapling.TouchSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitTouch(event sapling.TouchEvent) {
	TouchEventType.Publish(s.world, event)
}

// NodeData links a Donburi entity to a node of a sapling transform tree.
type NodeData struct {
	Tree *sapling.Tree
	ID   sapling.NodeID
}

// Node is the Donburi component holding a NodeData.
var Node = donburi.NewComponentType[NodeData]()

var nodeQuery = donburi.NewQuery(filter.Contains(Node))

// AttachNode creates a Donburi entity carrying a link to id.
func AttachNode(world donburi.World, tree *sapling.Tree, id sapling.NodeID) donburi.Entity {
	e := world.Create(Node)
	Node.SetValue(world.Entry(e), NodeData{Tree: tree, ID: id})
	return e
}

// World returns the world transform of the entry's linked node. ok is false
// when the node was freed.
func World(entry *donburi.Entry) (t sapling.Transform, ok bool) {
	d := Node.Get(entry)
	if d.Tree == nil || !d.Tree.Alive(d.ID) {
		return sapling.Transform{}, false
	}
	return *d.Tree.World(d.ID), true
}

// EachNode calls fn for every entity whose linked node is alive.
func EachNode(world donburi.World, fn func(entry *donburi.Entry, d *NodeData)) {
	nodeQuery.Each(world, func(entry *donburi.Entry) {
		d := Node.Get(entry)
		if d.Tree != nil && d.Tree.Alive(d.ID) {
			fn(entry, d)
		}
	})
}

// PruneDead removes entities whose linked node was freed. Returns the number
// removed.
func PruneDead(world donburi.World) int {
	var dead []donburi.Entity
	nodeQuery.Each(world, func(entry *donburi.Entry) {
		d := Node.Get(entry)
		if d.Tree == nil || !d.Tree.Alive(d.ID) {
			dead = append(dead, entry.Entity())
		}
	})
	for _, e := range dead {
		world.Remove(e)
	}
	return len(dead)
}
