// Package sprig propagates 3D transforms through a scene graph.
//
// Every element is a [Node] with a local position, scale, and orientation.
// A propagation pass walks each tree parent-before-child and asks the node's
// [Relation] to turn the local transform plus the parent's world transform
// into the node's world transform. Nodes whose inputs did not change are
// skipped through a per-node modified flag.
//
// # Quick start
//
//	forest := sprig.NewForest()
//
//	body := sprig.NewNode("body", nil)
//	forest.AddRoot(body)
//
//	boom := sprig.NewNode("boom", sprig.NewDampedFollow(8))
//	boom.SetLocalPosition(mgl64.Vec3{0, 2, -6})
//	body.AddChild(boom)
//
//	// each frame:
//	body.Translate(mgl64.Vec3{0.1, 0, 0})
//	forest.Update()
//	eye := boom.WorldPosition()
//
// # Relations
//
// [Rigid] composes the full parent transform. [PositionOnly] only adds the
// parent's world position. [DampedFollow] eases toward the rigid result with
// a one-pole filter and re-evaluates every pass, even when nothing upstream
// moved. Use [NewRelation] with a [RelationKind] to pick one by name, and
// [Relation.Clone] to give another node its own copy.
//
// # Propagation
//
// [Forest.Update] runs a [Propagator] over all roots. The value a relation
// returns is passed to that node's direct children as "parent updated", so a
// change anywhere reaches the whole subtree below it and nothing else.
// Damped nodes can publish settled transforms to a [PhysicsSync]; the ECS
// adapter in sprig/ecs forwards them into a [Donburi] world.
//
// # Loading rigs
//
// [LoadRig] builds a forest from YAML, [LoadGLTF] from a glTF scene, and
// [LoadScript] plays JSON frame scripts against a forest. Tweens over local
// fields use [gween] through [TweenPosition], [TweenScale], and
// [TweenRotation]. Package sprig/view draws a forest with [Ebitengine].
//
// Passes are single-threaded. Do not edit local transforms while a pass runs.
//
// [Donburi]: https://github.com/yohamta/donburi
// [gween]: https://github.com/tanema/gween
// [Ebitengine]: https://ebitengine.org
package sprig
