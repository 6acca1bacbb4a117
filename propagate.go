package sprig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// PhysicsSync receives world transforms that a relation asked to publish,
// typically to move a collision shape or kinematic body along with a damped
// node. Set one on a Forest or Propagator.
type PhysicsSync interface {
	SyncTransform(event TransformEvent)
}

// TransformEvent carries a node's freshly settled world transform.
type TransformEvent struct {
	NodeID      uint32
	EntityID    uint32
	Name        string
	Position    mgl64.Vec3
	Scale       mgl64.Vec3
	Orientation mgl64.Quat
}

func newTransformEvent(n *Node) TransformEvent {
	t := &n.transform
	return TransformEvent{
		NodeID:      n.ID,
		EntityID:    n.EntityID,
		Name:        n.Name,
		Position:    t.WorldPosition,
		Scale:       t.WorldScale,
		Orientation: t.WorldOrientation,
	}
}

// PropagateStats counts the work done by one pass.
type PropagateStats struct {
	Visited     int // nodes whose relation was called
	Recomputed  int // relations that reported a changed world transform
	Rescheduled int // nodes that asked to be evaluated again next pass
	Synced      int // nodes whose world transform was published
}

// Propagator walks node trees parent-before-child, calling each node's
// relation and threading the "parent updated" result to its direct children.
// The zero value is ready to use.
type Propagator struct {
	// Sync, if set, receives a TransformEvent for every node that requests
	// one during a pass.
	Sync PhysicsSync

	stats PropagateStats
}

// Propagate runs one pass over each root's subtree and returns the pass
// statistics. A root that still has a parent is treated as a subtree: its
// parent's current world transform is used with parentUpdated false.
//
// Panics if a node with a parent has no relation.
func (p *Propagator) Propagate(roots ...*Node) PropagateStats {
	p.stats = PropagateStats{}
	for _, r := range roots {
		p.update(r, r.Parent, false)
	}
	return p.stats
}

// Stats returns the statistics of the most recent pass.
func (p *Propagator) Stats() PropagateStats {
	return p.stats
}

func (p *Propagator) update(n, parent *Node, parentUpdated bool) {
	rel := n.relation
	if rel == nil {
		if parent != nil {
			panic(fmt.Sprintf("sprig: node %q has a parent but no relation", n.Name))
		}
		rel = rootRelation
	}
	if globalDebug {
		debugCheckDisposed(n, "Propagate")
	}

	n.rescheduled = false
	updated := rel.UpdateChildCoordinates(n, parent, parentUpdated)

	p.stats.Visited++
	if updated {
		p.stats.Recomputed++
	}
	if n.rescheduled {
		p.stats.Rescheduled++
	}
	if n.syncPending {
		n.syncPending = false
		p.sync(n)
	}

	for _, child := range n.children {
		p.update(child, n, updated)
	}
}

func (p *Propagator) sync(n *Node) {
	if n.OnWorldSync != nil {
		n.OnWorldSync(n)
	}
	if p.Sync != nil {
		p.Sync.SyncTransform(newTransformEvent(n))
	}
	p.stats.Synced++
}
