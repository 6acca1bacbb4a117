package sprig

import (
	"time"
)

// Forest is the top-level container that owns a set of root nodes and runs
// one propagation pass per Update. It is the graph container the relations
// rely on: trees are acyclic (AddChild panics on cycles) and Update visits
// parents before children.
type Forest struct {
	roots []*Node
	prop  Propagator
	debug bool

	updateFunc func() error
	script     *ScriptRunner
	frame      int
}

// NewForest creates an empty forest.
func NewForest() *Forest {
	return &Forest{}
}

// AddRoot appends a root node. If n has a parent it is detached first.
// A root later attached under another node with AddChild stops being a root
// at the next Update. Panics if n is nil.
func (f *Forest) AddRoot(n *Node) {
	if n == nil {
		panic("sprig: cannot add nil root")
	}
	if f.debug {
		debugCheckDisposed(n, "AddRoot")
	}
	n.RemoveFromParent()
	for _, r := range f.roots {
		if r == n {
			return
		}
	}
	f.roots = append(f.roots, n)
	markSubtreeModified(n)
}

// RemoveRoot removes n from the root list. The node is not disposed.
func (f *Forest) RemoveRoot(n *Node) {
	for i, r := range f.roots {
		if r == n {
			copy(f.roots[i:], f.roots[i+1:])
			f.roots[len(f.roots)-1] = nil
			f.roots = f.roots[:len(f.roots)-1]
			return
		}
	}
}

// pruneAttachedRoots drops roots that were since attached under another node
// with AddChild. They are reached through their new parent, or no longer
// belong to the forest at all.
func (f *Forest) pruneAttachedRoots() {
	kept := f.roots[:0]
	for _, r := range f.roots {
		if r.Parent == nil {
			kept = append(kept, r)
		}
	}
	clear(f.roots[len(kept):])
	f.roots = kept
}

// Roots returns the root list. The returned slice MUST NOT be mutated.
func (f *Forest) Roots() []*Node {
	f.pruneAttachedRoots()
	return f.roots
}

// Find returns the first node named name across all trees, or nil.
func (f *Forest) Find(name string) *Node {
	for _, r := range f.roots {
		if r.Parent != nil {
			continue
		}
		if n := r.FindChild(name); n != nil {
			return n
		}
	}
	return nil
}

// Walk calls fn for every node, parents before children, one tree at a time.
// Roots attached under another node since AddRoot are skipped.
func (f *Forest) Walk(fn func(*Node) bool) {
	for _, r := range f.roots {
		if r.Parent != nil {
			continue
		}
		r.Walk(fn)
	}
}

// Len returns the total number of nodes.
func (f *Forest) Len() int {
	count := 0
	f.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Frame returns the number of completed Update calls.
func (f *Forest) Frame() int {
	return f.frame
}

// SetUpdateFunc sets a callback run at the start of every Update, before the
// script and propagation. Use it to write local transforms for the frame.
func (f *Forest) SetUpdateFunc(fn func() error) {
	f.updateFunc = fn
}

// SetPhysicsSync sets the collaborator notified when damped nodes settle.
func (f *Forest) SetPhysicsSync(sync PhysicsSync) {
	f.prop.Sync = sync
}

// SetScript attaches a frame script. Its steps run from Update before
// propagation.
func (f *Forest) SetScript(runner *ScriptRunner) {
	f.script = runner
}

// Update runs the update callback, advances the script, then propagates
// world transforms through every tree. An error from the callback or the
// script aborts the frame before propagation.
func (f *Forest) Update() error {
	if f.updateFunc != nil {
		if err := f.updateFunc(); err != nil {
			return err
		}
	}
	if f.script != nil {
		if err := f.script.step(f); err != nil {
			return err
		}
	}

	var t0 time.Time
	if f.debug {
		t0 = time.Now()
	}

	f.pruneAttachedRoots()
	stats := f.prop.Propagate(f.roots...)

	if f.debug {
		f.debugLog(debugStats{propagateTime: time.Since(t0), pass: stats})
	}
	f.frame++
	return nil
}

// Stats returns the statistics of the last propagation pass.
func (f *Forest) Stats() PropagateStats {
	return f.prop.Stats()
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and
// per-frame propagation stats are logged to stderr.
func (f *Forest) SetDebugMode(enabled bool) {
	f.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Forest debug flag so that node
// operations (which lack a Forest pointer) can check it cheaply. Only valid
// with a single Forest; multiple Forests with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
