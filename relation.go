package sprig

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Relation decides how a node's world transform follows its parent.
//
// UpdateChildCoordinates is called once per propagation pass with the node,
// its parent (nil for roots) and whether the parent's world transform changed
// this pass. It writes the child's world transform, clears its modified flag,
// and reports whether the child's world transform changed, which becomes
// parentUpdated for the child's own children.
//
// Clone returns an independent copy with fresh per-node state.
type Relation interface {
	UpdateChildCoordinates(child, parent *Node, parentUpdated bool) bool
	Clone() Relation
}

// RelationKind names a built-in Relation.
type RelationKind uint8

const (
	RelationRigid        RelationKind = iota // full scale, rotation, and position inheritance
	RelationPositionOnly                     // inherit parent translation only
	RelationDampedFollow                     // low-pass filtered rigid inheritance
)

var relationKindNames = [...]string{
	RelationRigid:        "rigid",
	RelationPositionOnly: "position",
	RelationDampedFollow: "damped",
}

func (k RelationKind) String() string {
	if int(k) < len(relationKindNames) {
		return relationKindNames[k]
	}
	return fmt.Sprintf("RelationKind(%d)", k)
}

// ParseRelationKind maps a kind name to a RelationKind. Besides the String
// forms it accepts the aliases "normal", "vertex", "position-only", "slow",
// and "damped-follow". Matching is case-insensitive.
func ParseRelationKind(name string) (RelationKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rigid", "normal":
		return RelationRigid, nil
	case "position", "position-only", "vertex":
		return RelationPositionOnly, nil
	case "damped", "damped-follow", "slow":
		return RelationDampedFollow, nil
	}
	return 0, errors.Errorf("unknown relation kind %q", name)
}

// NewRelation constructs a built-in relation. relaxation is only used by
// RelationDampedFollow. Panics on an unknown kind or a negative relaxation.
func NewRelation(kind RelationKind, relaxation float64) Relation {
	switch kind {
	case RelationRigid:
		return Rigid{}
	case RelationPositionOnly:
		return PositionOnly{}
	case RelationDampedFollow:
		return NewDampedFollow(relaxation)
	}
	panic(fmt.Sprintf("sprig: unknown relation kind %d", kind))
}

// KindOf returns the kind of a built-in relation. ok is false for nil or
// custom relations.
func KindOf(rel Relation) (kind RelationKind, ok bool) {
	switch rel.(type) {
	case Rigid:
		return RelationRigid, true
	case PositionOnly:
		return RelationPositionOnly, true
	case *DampedFollow:
		return RelationDampedFollow, true
	}
	return 0, false
}

func mustHaveChild(child *Node) {
	if child == nil {
		panic("sprig: UpdateChildCoordinates called with nil child")
	}
}

// --- Rigid ---

// Rigid is an ordinary parent/child attachment: the child's frame is fully
// relative to the parent's world scale, orientation, and position.
type Rigid struct{}

// rootRelation stands in for roots created without a relation.
var rootRelation Relation = Rigid{}

// UpdateChildCoordinates implements Relation.
func (Rigid) UpdateChildCoordinates(child, parent *Node, parentUpdated bool) bool {
	mustHaveChild(child)

	if !parentUpdated && !child.modified {
		return false
	}

	t := &child.transform
	if parent == nil {
		t.setWorldFromLocal()
	} else {
		t.WorldScale, t.WorldPosition, t.WorldOrientation = rigidTarget(t, &parent.transform)
	}

	child.modified = false
	return true
}

// Clone implements Relation.
func (Rigid) Clone() Relation { return Rigid{} }

// --- PositionOnly ---

// PositionOnly tracks only the parent's world position. Parent rotation and
// scale are ignored, as when attaching to a single vertex of a deforming mesh.
type PositionOnly struct{}

// UpdateChildCoordinates implements Relation.
func (PositionOnly) UpdateChildCoordinates(child, parent *Node, parentUpdated bool) bool {
	mustHaveChild(child)

	if !parentUpdated && !child.modified {
		return false
	}

	t := &child.transform
	if parent == nil {
		t.WorldPosition = t.LocalPosition
	} else {
		t.WorldPosition = t.LocalPosition.Add(parent.transform.WorldPosition)
	}
	t.WorldScale = t.LocalScale
	t.WorldOrientation = t.LocalOrientation

	child.modified = false
	return true
}

// Clone implements Relation.
func (PositionOnly) Clone() Relation { return PositionOnly{} }

// --- DampedFollow ---

// DampedFollow applies a one-pole low-pass filter to the rigid-composed
// target, so the child eases toward where a Rigid child would be. Typical
// use is a camera boom that lags behind the body it follows.
//
// The first update after construction snaps to the target. Later updates
// move a fraction 1/(Relaxation+1) of the remaining distance each pass;
// orientation is slerped by the same weight. Relaxation 0 snaps every pass.
//
// A DampedFollow runs every pass regardless of dirty state and reschedules
// its node each time. Without a parent it copies local to world directly and
// reports no change to its children.
type DampedFollow struct {
	Relaxation float64

	initialized bool
}

// NewDampedFollow returns an uninitialized DampedFollow.
// Panics if relaxation is negative or NaN.
func NewDampedFollow(relaxation float64) *DampedFollow {
	if !validRelaxation(relaxation) {
		panic(fmt.Sprintf("sprig: invalid relaxation %v", relaxation))
	}
	return &DampedFollow{Relaxation: relaxation}
}

// Initialized reports whether the filter has taken its first snap.
func (d *DampedFollow) Initialized() bool {
	return d.initialized
}

// UpdateChildCoordinates implements Relation. parentUpdated is ignored.
func (d *DampedFollow) UpdateChildCoordinates(child, parent *Node, _ bool) bool {
	mustHaveChild(child)

	t := &child.transform
	if parent == nil {
		t.setWorldFromLocal()
	} else {
		scale, pos, orient := rigidTarget(t, &parent.transform)
		if d.initialized {
			r := d.Relaxation
			w := 1 / (r + 1)
			scale = t.WorldScale.Mul(r).Add(scale).Mul(w)
			pos = t.WorldPosition.Mul(r).Add(pos).Mul(w)
			orient = slerpShortest(t.WorldOrientation, orient, w)
		} else {
			d.initialized = true
		}
		t.WorldScale = scale
		t.WorldPosition = pos
		t.WorldOrientation = orient
		child.syncPending = true
	}

	child.modified = false
	child.rescheduled = true
	return parent != nil
}

// validRelaxation rejects negative and NaN relaxations.
func validRelaxation(r float64) bool {
	return r >= 0
}

// slerpShortest interpolates from a to b along the shorter arc. q and -q are
// the same rotation, so b is negated when it lies in the opposite hemisphere.
func slerpShortest(a, b mgl64.Quat, amount float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, amount)
}

// Clone implements Relation. The copy keeps Relaxation and starts
// uninitialized.
func (d *DampedFollow) Clone() Relation {
	return &DampedFollow{Relaxation: d.Relaxation}
}
