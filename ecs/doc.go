// Package ecs provides ECS adapters for sprig's physics sync hook.
//
// The primary adapter is [NewDonburiSync], which publishes every settled
// world transform from a propagation pass into a [Donburi] world as a typed
// event. Subscribe to [TransformEventType] in your physics or collision
// systems to move shapes along with damped nodes.
//
// Usage:
//
//	sync := ecs.NewDonburiSync(world)
//	forest.SetPhysicsSync(sync)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
