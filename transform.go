package sprig

import "github.com/go-gl/mathgl/mgl64"

// Transform holds a node's local and world position, scale, and orientation.
//
// World fields are only valid between an update by the node's relation and
// the next change to any local field of the node or one of its ancestors.
// Scales are never clamped; zero or negative components pass through.
type Transform struct {
	LocalPosition    mgl64.Vec3
	LocalScale       mgl64.Vec3
	LocalOrientation mgl64.Quat

	WorldPosition    mgl64.Vec3
	WorldScale       mgl64.Vec3
	WorldOrientation mgl64.Quat
}

// NewTransform returns an identity transform: zero position, unit scale,
// identity orientation for both local and world fields.
func NewTransform() Transform {
	return Transform{
		LocalScale:       mgl64.Vec3{1, 1, 1},
		LocalOrientation: mgl64.QuatIdent(),
		WorldScale:       mgl64.Vec3{1, 1, 1},
		WorldOrientation: mgl64.QuatIdent(),
	}
}

// WorldMatrix returns the world transform as a homogeneous matrix:
// Translate * Rotate * Scale.
func (t Transform) WorldMatrix() mgl64.Mat4 {
	return trsMatrix(t.WorldPosition, t.WorldOrientation, t.WorldScale)
}

// LocalMatrix returns the local transform as a homogeneous matrix.
func (t Transform) LocalMatrix() mgl64.Mat4 {
	return trsMatrix(t.LocalPosition, t.LocalOrientation, t.LocalScale)
}

func trsMatrix(pos mgl64.Vec3, orient mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(orient.Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// setWorldFromLocal copies every local field into its world counterpart.
func (t *Transform) setWorldFromLocal() {
	t.WorldPosition = t.LocalPosition
	t.WorldScale = t.LocalScale
	t.WorldOrientation = t.LocalOrientation
}

// rigidTarget composes the child's local transform with the parent's world
// transform:
//
//	scale  = Ps * Cs
//	orient = Po * Co
//	pos    = Pp + Ps * Cs * ((Po * Co) rotate Cp)
//
// The local offset is rotated by the combined orientation, then scaled by the
// combined scale, then translated.
func rigidTarget(child, parent *Transform) (scale, pos mgl64.Vec3, orient mgl64.Quat) {
	scale = mulComponents(parent.WorldScale, child.LocalScale)
	orient = parent.WorldOrientation.Mul(child.LocalOrientation)
	pos = parent.WorldPosition.Add(mulComponents(scale, orient.Rotate(child.LocalPosition)))
	return scale, pos, orient
}

// mulComponents is the component-wise (Hadamard) product of two vectors.
func mulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// --- Transform property setters ---

// SetLocalPosition sets the node's local position and marks it modified.
func (n *Node) SetLocalPosition(p mgl64.Vec3) {
	n.transform.LocalPosition = p
	n.modified = true
}

// SetLocalScale sets the node's local scale and marks it modified.
func (n *Node) SetLocalScale(s mgl64.Vec3) {
	n.transform.LocalScale = s
	n.modified = true
}

// SetLocalOrientation sets the node's local orientation and marks it modified.
func (n *Node) SetLocalOrientation(q mgl64.Quat) {
	n.transform.LocalOrientation = q
	n.modified = true
}

// SetLocalRotation sets the local orientation from an axis and an angle in
// radians. The axis is expected to be unit length.
func (n *Node) SetLocalRotation(axis mgl64.Vec3, angle float64) {
	n.SetLocalOrientation(mgl64.QuatRotate(angle, axis))
}

// Translate offsets the node's local position by d and marks it modified.
func (n *Node) Translate(d mgl64.Vec3) {
	n.SetLocalPosition(n.transform.LocalPosition.Add(d))
}

// MarkModified flags the node's local transform as changed, forcing its
// relation to recompute on the next pass.
func (n *Node) MarkModified() {
	n.modified = true
}

// --- Accessors ---

// Transform returns a copy of the node's full transform.
func (n *Node) Transform() Transform {
	return n.transform
}

// LocalPosition returns the node's local position.
func (n *Node) LocalPosition() mgl64.Vec3 { return n.transform.LocalPosition }

// LocalScale returns the node's local scale.
func (n *Node) LocalScale() mgl64.Vec3 { return n.transform.LocalScale }

// LocalOrientation returns the node's local orientation.
func (n *Node) LocalOrientation() mgl64.Quat { return n.transform.LocalOrientation }

// WorldPosition returns the world position computed by the last pass.
func (n *Node) WorldPosition() mgl64.Vec3 { return n.transform.WorldPosition }

// WorldScale returns the world scale computed by the last pass.
func (n *Node) WorldScale() mgl64.Vec3 { return n.transform.WorldScale }

// WorldOrientation returns the world orientation computed by the last pass.
func (n *Node) WorldOrientation() mgl64.Quat { return n.transform.WorldOrientation }

// WorldMatrix returns the node's world transform as a homogeneous matrix.
func (n *Node) WorldMatrix() mgl64.Mat4 { return n.transform.WorldMatrix() }

// SetWorld writes the node's world transform. Intended for Relation
// implementations outside this package; built-in relations write directly.
func (n *Node) SetWorld(pos, scale mgl64.Vec3, orient mgl64.Quat) {
	n.transform.WorldPosition = pos
	n.transform.WorldScale = scale
	n.transform.WorldOrientation = orient
}

// --- Coordinate conversion ---

// LocalToWorld converts a point in this node's local space to world space
// using the world scale, orientation, and position from the last pass.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	t := &n.transform
	return t.WorldPosition.Add(t.WorldOrientation.Rotate(mulComponents(t.WorldScale, p)))
}

// WorldToLocal converts a world-space point into this node's local space.
// Zero scale components produce non-finite results.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	t := &n.transform
	r := t.WorldOrientation.Inverse().Rotate(p.Sub(t.WorldPosition))
	return mgl64.Vec3{r[0] / t.WorldScale[0], r[1] / t.WorldScale[1], r[2] / t.WorldScale[2]}
}
