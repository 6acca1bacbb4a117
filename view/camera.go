package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/sprig"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the camera target.
type scrollAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is an orthographic view of the forest: it looks at Target from the
// direction given by Yaw and Pitch and maps world units to pixels by Zoom.
type Camera struct {
	// Target is the world-space point at the center of the viewport.
	Target mgl64.Vec3
	// Yaw turns the view about the world Y axis, in radians.
	Yaw float64
	// Pitch tilts the view about the camera X axis, in radians.
	Pitch float64
	// Zoom is pixels per world unit.
	Zoom float64
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	followTarget *sprig.Node
	followOffset mgl64.Vec3
	followLerp   float64

	viewMatrix mgl64.Mat4
	dirty      bool

	scrollTween *scrollAnim
}

// NewCamera creates a camera for a viewport of the given size, looking down
// the Z axis with 40 pixels per unit.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		Zoom:   40,
		Width:  width,
		Height: height,
		dirty:  true,
	}
}

// Follow makes the camera track a node's world position with the given
// offset and lerp factor. A lerp of 1.0 snaps immediately; lower values give
// smoother following.
func (c *Camera) Follow(node *sprig.Node, offset mgl64.Vec3, lerp float64) {
	c.followTarget = node
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera target to the given world position over
// duration seconds.
func (c *Camera) ScrollTo(to mgl64.Vec3, duration float32, easeFn ease.TweenFunc) {
	anim := &scrollAnim{}
	for i := range anim.tweens {
		anim.tweens[i] = gween.New(float32(c.Target[i]), float32(to[i]), duration, easeFn)
	}
	c.scrollTween = anim
}

// update advances follow and scroll. Called from Viewer.Update.
func (c *Camera) update(dt float32) {
	prev := c.Target

	if c.followTarget != nil && !c.followTarget.IsDisposed() {
		goal := c.followTarget.WorldPosition().Add(c.followOffset)
		c.Target = c.Target.Add(goal.Sub(c.Target).Mul(c.followLerp))
	}

	if c.scrollTween != nil {
		all := true
		for i, tw := range c.scrollTween.tweens {
			if c.scrollTween.done[i] {
				continue
			}
			val, done := tw.Update(dt)
			c.Target[i] = float64(val)
			c.scrollTween.done[i] = done
			all = all && done
		}
		if all {
			c.scrollTween = nil
		}
	}

	if c.Target != prev {
		c.dirty = true
	}
}

// MarkDirty forces a recomputation of the view matrix. Call it after
// changing Yaw, Pitch, Zoom, or the viewport size directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
//	view = Translate(cx, cy) * Scale(zoom, -zoom, zoom) * RotX(pitch) * RotY(-yaw) * Translate(-Target)
//
// Screen Y grows downward, so world Y is flipped.
func (c *Camera) computeViewMatrix() mgl64.Mat4 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	z := c.Zoom
	c.viewMatrix = mgl64.Translate3D(c.Width/2, c.Height/2, 0).
		Mul4(mgl64.Scale3D(z, -z, z)).
		Mul4(mgl64.HomogRotate3DX(c.Pitch)).
		Mul4(mgl64.HomogRotate3DY(-c.Yaw)).
		Mul4(mgl64.Translate3D(-c.Target[0], -c.Target[1], -c.Target[2]))
	return c.viewMatrix
}

// WorldToScreen projects a world point to screen pixels. depth is the
// view-space Z in pixels, usable for back-to-front ordering.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (x, y, depth float64) {
	v := c.computeViewMatrix().Mul4x1(p.Vec4(1))
	return v[0], v[1], v[2]
}

// Visible reports whether a projected point lies inside the viewport with
// the given pixel margin.
func (c *Camera) Visible(x, y, margin float64) bool {
	return x >= -margin && y >= -margin &&
		x <= c.Width+margin && y <= c.Height+margin &&
		!math.IsNaN(x) && !math.IsNaN(y)
}
