package sprig

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// dampedRig returns a root at the origin with a damped child at zero offset,
// already propagated once so the filter has snapped.
func dampedRig(t *testing.T, relaxation float64) (root, child *Node, d *DampedFollow) {
	t.Helper()
	root = NewNode("root", nil)
	d = NewDampedFollow(relaxation)
	child = NewNode("follower", d)
	root.AddChild(child)
	propagate(root)
	if !d.Initialized() {
		t.Fatal("filter should be initialized after the first pass")
	}
	return root, child, d
}

// --- RelationKind ---

func TestRelationKindString(t *testing.T) {
	tests := []struct {
		kind RelationKind
		want string
	}{
		{RelationRigid, "rigid"},
		{RelationPositionOnly, "position"},
		{RelationDampedFollow, "damped"},
		{RelationKind(9), "RelationKind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseRelationKind(t *testing.T) {
	tests := []struct {
		name string
		want RelationKind
	}{
		{"rigid", RelationRigid},
		{"normal", RelationRigid},
		{"Position", RelationPositionOnly},
		{"position-only", RelationPositionOnly},
		{"vertex", RelationPositionOnly},
		{"damped", RelationDampedFollow},
		{" DAMPED-FOLLOW ", RelationDampedFollow},
		{"slow", RelationDampedFollow},
	}
	for _, tt := range tests {
		got, err := ParseRelationKind(tt.name)
		if err != nil {
			t.Errorf("ParseRelationKind(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRelationKind(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseRelationKindUnknown(t *testing.T) {
	_, err := ParseRelationKind("wobbly")
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "wobbly") {
		t.Errorf("error should name the kind, got: %v", err)
	}
}

func TestNewRelation(t *testing.T) {
	if _, ok := NewRelation(RelationRigid, 0).(Rigid); !ok {
		t.Error("RelationRigid should build Rigid")
	}
	if _, ok := NewRelation(RelationPositionOnly, 0).(PositionOnly); !ok {
		t.Error("RelationPositionOnly should build PositionOnly")
	}
	d, ok := NewRelation(RelationDampedFollow, 4).(*DampedFollow)
	if !ok {
		t.Fatal("RelationDampedFollow should build *DampedFollow")
	}
	if d.Relaxation != 4 || d.Initialized() {
		t.Errorf("got %+v, want relaxation 4 and uninitialized", d)
	}
}

func TestNewRelationUnknownPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown kind, got none")
		}
	}()
	NewRelation(RelationKind(42), 0)
}

func TestKindOf(t *testing.T) {
	for _, kind := range []RelationKind{RelationRigid, RelationPositionOnly, RelationDampedFollow} {
		got, ok := KindOf(NewRelation(kind, 1))
		if !ok || got != kind {
			t.Errorf("KindOf(%v) = %v, %v", kind, got, ok)
		}
	}
	if _, ok := KindOf(nil); ok {
		t.Error("KindOf(nil) should not be ok")
	}
	if _, ok := KindOf(&recorder{}); ok {
		t.Error("KindOf(custom) should not be ok")
	}
}

func TestRelationsPanicOnNilChild(t *testing.T) {
	parent := NewNode("parent", nil)
	for _, rel := range []Relation{Rigid{}, PositionOnly{}, NewDampedFollow(1)} {
		t.Run(fmt.Sprintf("%T", rel), func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for nil child, got none")
				}
			}()
			rel.UpdateChildCoordinates(nil, parent, true)
		})
	}
}

func TestCloneBuiltins(t *testing.T) {
	if _, ok := (Rigid{}).Clone().(Rigid); !ok {
		t.Error("Rigid.Clone should return Rigid")
	}
	if _, ok := (PositionOnly{}).Clone().(PositionOnly); !ok {
		t.Error("PositionOnly.Clone should return PositionOnly")
	}
}

// --- DampedFollow ---

func TestNewDampedFollowInvalidPanics(t *testing.T) {
	for _, r := range []float64{-1, math.NaN()} {
		t.Run(fmt.Sprint(r), func(t *testing.T) {
			defer func() {
				if rec := recover(); rec == nil {
					t.Errorf("expected panic for relaxation %v, got none", r)
				}
			}()
			NewDampedFollow(r)
		})
	}
}

func TestDampedFollowFirstUpdateSnaps(t *testing.T) {
	root := NewNode("root", nil)
	root.SetLocalPosition(mgl64.Vec3{10, 0, 0})
	root.SetLocalRotation(axisY, math.Pi/2)

	d := NewDampedFollow(100)
	child := NewNode("follower", d)
	child.SetLocalPosition(mgl64.Vec3{0, 0, 1})
	root.AddChild(child)

	propagate(root)

	// Rigid target: (10,0,0) + Ry90*(0,0,1) = (11,0,0).
	assertVecNear(t, "WorldPosition", child.WorldPosition(), mgl64.Vec3{11, 0, 0})
	assertQuatNear(t, "WorldOrientation", child.WorldOrientation(), mgl64.QuatRotate(math.Pi/2, axisY))
	if !d.Initialized() {
		t.Error("filter should be initialized")
	}
}

func TestDampedFollowConvergesMonotonically(t *testing.T) {
	root, child, _ := dampedRig(t, 3)
	target := mgl64.Vec3{4, 0, 0}
	root.SetLocalPosition(target)

	// Each pass covers 1/(3+1) of the remaining distance.
	want := []float64{1, 1.75, 2.3125}
	prevDist := target.Sub(child.WorldPosition()).Len()
	passes := 0
	for ; prevDist >= 1e-9; passes++ {
		if passes == 1000 {
			t.Fatalf("no convergence after %d passes, distance %v", passes, prevDist)
		}
		propagate(root)
		if passes < len(want) {
			assertVecNear(t, fmt.Sprintf("pass %d", passes), child.WorldPosition(), mgl64.Vec3{want[passes], 0, 0})
		}
		dist := target.Sub(child.WorldPosition()).Len()
		if dist >= prevDist {
			t.Fatalf("pass %d: distance %v did not shrink from %v", passes, dist, prevDist)
		}
		prevDist = dist
	}
	if passes < len(want) {
		t.Errorf("converged after %d passes, expected a gradual approach", passes)
	}
}

func TestDampedFollowRunsWithoutDirtyInputs(t *testing.T) {
	root, child, _ := dampedRig(t, 1)
	root.SetLocalPosition(mgl64.Vec3{8, 0, 0})
	propagate(root)
	assertVecNear(t, "after move", child.WorldPosition(), mgl64.Vec3{4, 0, 0})

	// Nothing is modified now, but the filter keeps easing.
	if root.IsModified() || child.IsModified() {
		t.Fatal("no node should be modified before the second pass")
	}
	propagate(root)
	assertVecNear(t, "second pass", child.WorldPosition(), mgl64.Vec3{6, 0, 0})
}

func TestDampedFollowSlerpsOrientation(t *testing.T) {
	root, child, _ := dampedRig(t, 1)
	root.SetLocalRotation(axisZ, math.Pi/2)
	propagate(root)
	assertQuatNear(t, "WorldOrientation", child.WorldOrientation(), mgl64.QuatRotate(math.Pi/4, axisZ))
}

// forward returns the world direction of a node's local +X axis.
func forward(n *Node) mgl64.Vec3 {
	return n.WorldOrientation().Rotate(axisX)
}

func TestDampedFollowYawWrapTakesShortArc(t *testing.T) {
	root := NewNode("root", nil)
	root.SetLocalRotation(axisZ, mgl64.DegToRad(179))
	child := NewNode("follower", NewDampedFollow(1))
	root.AddChild(child)
	propagate(root)

	// 179 to -179 degrees is a 2 degree turn through 180.
	root.SetLocalRotation(axisZ, mgl64.DegToRad(-179))
	propagate(root)

	assertQuatNear(t, "WorldOrientation", child.WorldOrientation(), mgl64.QuatRotate(math.Pi, axisZ))
	assertVecNear(t, "forward", forward(child), mgl64.Vec3{-1, 0, 0})
}

func TestDampedFollowFullTurnStaysPut(t *testing.T) {
	root, child, _ := dampedRig(t, 3)

	// A full turn is the same rotation stored as -identity.
	root.SetLocalRotation(axisZ, 2*math.Pi)
	for i := 0; i < 5; i++ {
		propagate(root)
		assertQuatNear(t, fmt.Sprintf("pass %d", i), child.WorldOrientation(), mgl64.QuatIdent())
		assertVecNear(t, fmt.Sprintf("pass %d forward", i), forward(child), axisX)
	}
}

func TestDampedFollowNegatedTargetMatchesPositive(t *testing.T) {
	quarter := mgl64.QuatRotate(math.Pi/2, axisZ)

	var got [2]mgl64.Quat
	for i, target := range []mgl64.Quat{quarter, quarter.Scale(-1)} {
		root, child, _ := dampedRig(t, 1)
		root.SetLocalOrientation(target)
		propagate(root)
		got[i] = child.WorldOrientation()
	}

	assertQuatNear(t, "+q", got[0], mgl64.QuatRotate(math.Pi/4, axisZ))
	assertQuatNear(t, "-q", got[1], mgl64.QuatRotate(math.Pi/4, axisZ))
}

func TestDampedFollowBlendsScale(t *testing.T) {
	root, child, _ := dampedRig(t, 1)
	root.SetLocalScale(mgl64.Vec3{3, 3, 3})
	propagate(root)
	assertVecNear(t, "WorldScale", child.WorldScale(), mgl64.Vec3{2, 2, 2})
}

func TestDampedFollowZeroRelaxationSnaps(t *testing.T) {
	root, child, _ := dampedRig(t, 0)
	root.SetLocalPosition(mgl64.Vec3{0, -7, 2})
	propagate(root)
	assertVecNear(t, "WorldPosition", child.WorldPosition(), mgl64.Vec3{0, -7, 2})
}

func TestDampedFollowReportsUpdateWhenParented(t *testing.T) {
	_, child, d := dampedRig(t, 2)
	if !d.UpdateChildCoordinates(child, child.Parent, false) {
		t.Error("parented damped node should always report an update")
	}
	if !child.NeedsUpdate() {
		t.Error("damped node should reschedule itself")
	}
	if child.IsModified() {
		t.Error("modified flag should be cleared")
	}
}

func TestDampedFollowRootBypassesFilter(t *testing.T) {
	d := NewDampedFollow(5)
	n := NewNode("cam", d)
	n.SetLocalPosition(mgl64.Vec3{1, 2, 3})
	n.SetLocalRotation(axisX, 0.3)

	if d.UpdateChildCoordinates(n, nil, true) {
		t.Error("damped root should report no update")
	}
	assertVecNear(t, "WorldPosition", n.WorldPosition(), mgl64.Vec3{1, 2, 3})
	assertQuatNear(t, "WorldOrientation", n.WorldOrientation(), mgl64.QuatRotate(0.3, axisX))
	if d.Initialized() {
		t.Error("root bypass should leave the filter uninitialized")
	}
	if !n.NeedsUpdate() {
		t.Error("damped root should still reschedule itself")
	}
}

func TestDampedFollowChildrenFollowEveryPass(t *testing.T) {
	root, follower, _ := dampedRig(t, 1)
	tip := NewNode("tip", Rigid{})
	tip.SetLocalPosition(mgl64.Vec3{0, 1, 0})
	follower.AddChild(tip)
	propagate(root)

	root.SetLocalPosition(mgl64.Vec3{2, 0, 0})
	propagate(root)
	propagate(root)

	// follower eased 0 -> 1 -> 1.5; the rigid tip tracks it each pass.
	assertVecNear(t, "follower", follower.WorldPosition(), mgl64.Vec3{1.5, 0, 0})
	assertVecNear(t, "tip", tip.WorldPosition(), mgl64.Vec3{1.5, 1, 0})
}

func TestDampedFollowCloneIsIndependent(t *testing.T) {
	_, _, d := dampedRig(t, 5)

	c, ok := d.Clone().(*DampedFollow)
	if !ok {
		t.Fatal("Clone should return *DampedFollow")
	}
	if c == d {
		t.Fatal("Clone should return a new instance")
	}
	if c.Relaxation != 5 {
		t.Errorf("Relaxation = %v, want 5", c.Relaxation)
	}
	if c.Initialized() {
		t.Error("clone should start uninitialized")
	}
	c.Relaxation = 1
	if d.Relaxation != 5 {
		t.Error("changing the clone should not affect the original")
	}
}

func TestDampedFollowRelaxationChangeTakesEffect(t *testing.T) {
	root, child, d := dampedRig(t, 9)
	d.Relaxation = 1
	root.SetLocalPosition(mgl64.Vec3{10, 0, 0})
	propagate(root)
	assertNear(t, "x", child.WorldPosition()[0], 5)
}
