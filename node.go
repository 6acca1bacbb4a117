package sprig

import "fmt"

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; sprig is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is a spatial scene graph element. It owns its Transform and, for
// non-root nodes, exactly one Relation that decides how the parent's world
// transform is applied. Parent is a non-owning back reference; node lifetime
// belongs to whoever holds the tree (usually a Forest).
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	transform Transform
	relation  Relation

	// modified is set by every local setter and cleared by the relation.
	modified bool
	// rescheduled is set by relations that must run again next pass even
	// when nothing upstream changes.
	rescheduled bool
	// syncPending asks the propagator to notify physics collaborators.
	syncPending bool

	// Metadata
	UserData any
	EntityID uint32

	// OnWorldSync is called after a propagation pass settles a new filtered
	// world transform on this node (DampedFollow). Nil by default.
	OnWorldSync func(n *Node)

	disposed bool
}

// NewNode creates a node with an identity local transform and the given
// relation. Root nodes may pass nil. The node starts modified so the first
// pass computes its world transform.
func NewNode(name string, rel Relation) *Node {
	return &Node{
		ID:        nextNodeID(),
		Name:      name,
		transform: NewTransform(),
		relation:  rel,
		modified:  true,
	}
}

// Relation returns the node's relation strategy, or nil for a bare root.
func (n *Node) Relation() Relation {
	return n.relation
}

// SetRelation replaces the node's relation. The node takes ownership of rel;
// share a strategy between nodes with Clone, never by passing the same
// stateful instance twice. The node is marked modified.
func (n *Node) SetRelation(rel Relation) {
	n.relation = rel
	n.modified = true
}

// CopyRelation gives n a fresh clone of src's relation. Damped state is not
// carried over. Panics if src has no relation.
func (n *Node) CopyRelation(src *Node) {
	if src.relation == nil {
		panic(fmt.Sprintf("sprig: node %q has no relation to copy", src.Name))
	}
	n.SetRelation(src.relation.Clone())
}

// IsModified reports whether a local field changed since the last pass.
func (n *Node) IsModified() bool {
	return n.modified
}

// ClearModified clears the modified flag. Relations call this after writing
// the world transform.
func (n *Node) ClearModified() {
	n.modified = false
}

// NeedsUpdate reports whether the next pass has work to do for this node:
// either its local transform changed or its relation asked to be run again.
func (n *Node) NeedsUpdate() bool {
	return n.modified || n.rescheduled
}

// RequestReschedule asks the propagator to evaluate this node again next
// pass. DampedFollow calls it on every update.
func (n *Node) RequestReschedule() {
	n.rescheduled = true
}

// RequestSync marks the node's world transform for delivery to physics
// collaborators at the end of the relation call.
func (n *Node) RequestSync() {
	n.syncPending = true
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("sprig: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("sprig: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeModified(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node. The child becomes a root and
// keeps its relation.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("sprig: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeModified(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// FindChild returns the first descendant (depth-first, including n) named
// name, or nil.
func (n *Node) FindChild(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindChild(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and every descendant, parents before children.
// Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Depth returns the number of ancestors above n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, and
// recursively disposes all descendants. Owned relations go with them.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.relation = nil
	n.UserData = nil
	n.OnWorldSync = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeModified sets modified on node and all its descendants.
func markSubtreeModified(node *Node) {
	node.modified = true
	for _, child := range node.children {
		markSubtreeModified(child)
	}
}
