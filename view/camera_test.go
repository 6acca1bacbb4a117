package view

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/sprig"
	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func assertScreen(t *testing.T, name string, cam *Camera, p mgl64.Vec3, wantX, wantY float64) {
	t.Helper()
	x, y, _ := cam.WorldToScreen(p)
	if math.Abs(x-wantX) > epsilon || math.Abs(y-wantY) > epsilon {
		t.Errorf("%s: WorldToScreen(%v) = (%v, %v), want (%v, %v)", name, p, x, y, wantX, wantY)
	}
}

func TestCameraDefaultProjection(t *testing.T) {
	cam := NewCamera(800, 600)
	assertScreen(t, "origin", cam, mgl64.Vec3{}, 400, 300)
	assertScreen(t, "+x", cam, mgl64.Vec3{1, 0, 0}, 440, 300)
	assertScreen(t, "+y", cam, mgl64.Vec3{0, 1, 0}, 400, 260)
}

func TestCameraYaw(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Yaw = math.Pi / 2
	cam.MarkDirty()

	// Looking from +X, the X axis points straight into the screen.
	x, y, depth := cam.WorldToScreen(mgl64.Vec3{1, 0, 0})
	if math.Abs(x-400) > epsilon || math.Abs(y-300) > epsilon {
		t.Errorf("screen = (%v, %v), want center", x, y)
	}
	if math.Abs(math.Abs(depth)-40) > epsilon {
		t.Errorf("|depth| = %v, want 40", math.Abs(depth))
	}
}

func TestCameraZoomNeedsMarkDirty(t *testing.T) {
	cam := NewCamera(800, 600)
	assertScreen(t, "before", cam, mgl64.Vec3{1, 0, 0}, 440, 300)

	cam.Zoom = 10
	assertScreen(t, "cached", cam, mgl64.Vec3{1, 0, 0}, 440, 300)

	cam.MarkDirty()
	assertScreen(t, "after", cam, mgl64.Vec3{1, 0, 0}, 410, 300)
}

func TestCameraFollowSnaps(t *testing.T) {
	node := sprig.NewNode("target", nil)
	node.SetLocalPosition(mgl64.Vec3{2, 3, 0})
	var p sprig.Propagator
	p.Propagate(node)

	cam := NewCamera(800, 600)
	cam.Follow(node, mgl64.Vec3{0, 1, 0}, 1)
	cam.update(1.0 / 60)

	if cam.Target != (mgl64.Vec3{2, 4, 0}) {
		t.Errorf("Target = %v, want (2, 4, 0)", cam.Target)
	}
	assertScreen(t, "followed", cam, mgl64.Vec3{2, 4, 0}, 400, 300)

	cam.Unfollow()
	node.SetLocalPosition(mgl64.Vec3{9, 9, 9})
	p.Propagate(node)
	cam.update(1.0 / 60)
	if cam.Target != (mgl64.Vec3{2, 4, 0}) {
		t.Error("Unfollow should stop tracking")
	}
}

func TestCameraFollowLerp(t *testing.T) {
	node := sprig.NewNode("target", nil)
	node.SetLocalPosition(mgl64.Vec3{10, 0, 0})
	var p sprig.Propagator
	p.Propagate(node)

	cam := NewCamera(800, 600)
	cam.Follow(node, mgl64.Vec3{}, 0.5)
	cam.update(1.0 / 60)
	if math.Abs(cam.Target[0]-5) > epsilon {
		t.Errorf("Target.x = %v, want 5", cam.Target[0])
	}
}

func TestCameraFollowDisposedNode(t *testing.T) {
	node := sprig.NewNode("target", nil)
	cam := NewCamera(800, 600)
	cam.Follow(node, mgl64.Vec3{}, 1)
	node.Dispose()
	cam.Target = mgl64.Vec3{1, 1, 1}
	cam.update(1.0 / 60)
	if cam.Target != (mgl64.Vec3{1, 1, 1}) {
		t.Error("camera should ignore a disposed follow target")
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.ScrollTo(mgl64.Vec3{10, -4, 0}, 1.0, ease.Linear)

	cam.update(0.5)
	if math.Abs(cam.Target[0]-5) > 0.01 || math.Abs(cam.Target[1]+2) > 0.01 {
		t.Errorf("halfway Target = %v, want ~(5, -2, 0)", cam.Target)
	}

	cam.update(0.5)
	if math.Abs(cam.Target[0]-10) > 0.01 {
		t.Errorf("final Target = %v, want ~(10, -4, 0)", cam.Target)
	}
	if cam.scrollTween != nil {
		t.Error("scroll should finish")
	}
	assertScreen(t, "scrolled", cam, cam.Target, 400, 300)
}

func TestCameraVisible(t *testing.T) {
	cam := NewCamera(800, 600)
	tests := []struct {
		x, y float64
		want bool
	}{
		{400, 300, true},
		{-5, 0, true},
		{-20, 0, false},
		{805, 605, true},
		{900, 300, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		if got := cam.Visible(tt.x, tt.y, 8); got != tt.want {
			t.Errorf("Visible(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
