package ecs

import (
	"github.com/phanxgames/sprig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TransformEventType is the Donburi event type for sprig transform events.
// Subscribe to this in your ECS systems to receive settled world transforms.
var TransformEventType = events.NewEventType[sprig.TransformEvent]()

type donburiSync struct {
	world donburi.World
}

// NewDonburiSync creates a PhysicsSync backed by a Donburi world.
// Transform events are published to TransformEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiSync(world donburi.World) sprig.PhysicsSync {
	return &donburiSync{world: world}
}

func (s *donburiSync) SyncTransform(event sprig.TransformEvent) {
	TransformEventType.Publish(s.world, event)
}
