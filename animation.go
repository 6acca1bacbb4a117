package sprig

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 fields of a Node's local transform
// simultaneously. Create one via the convenience constructors (TweenPosition,
// TweenScale, TweenRotation) and call Update(dt) each frame. The group
// auto-applies values and marks the node modified. If the target node is
// disposed, the group stops immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float64
	target *Node
	Done   bool

	// rotation tweens write an angle and rebuild the orientation from axis
	angle float64
	axis  mgl64.Vec3
	base  mgl64.Quat
	isRot bool
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node modified. If the target node has been disposed, Done is
// set to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		if g.isRot {
			g.target.transform.LocalOrientation = mgl64.QuatRotate(g.angle, g.axis).Mul(g.base)
		}
		g.target.MarkModified()
	}
}

// TweenPosition creates a TweenGroup that animates the node's local position
// to the given target over the specified duration using the easing function.
func TweenPosition(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.transform.LocalPosition, to, duration, fn)
}

// TweenScale creates a TweenGroup that animates the node's local scale to the
// given target over the specified duration using the easing function.
func TweenScale(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.transform.LocalScale, to, duration, fn)
}

func tweenVec3(node *Node, v *mgl64.Vec3, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(v[i]), float32(to[i]), duration, fn)
		g.fields[i] = &v[i]
	}
	return g
}

// TweenRotation creates a TweenGroup that turns the node by angle radians
// about axis, applied on top of the node's local orientation at creation.
// The axis is expected to be unit length.
func TweenRotation(node *Node, axis mgl64.Vec3, angle float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{
		count:  1,
		target: node,
		axis:   axis,
		base:   node.transform.LocalOrientation,
		isRot:  true,
	}
	g.tweens[0] = gween.New(0, float32(angle), duration, fn)
	g.fields[0] = &g.angle
	return g
}
