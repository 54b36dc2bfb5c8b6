// Package ecs provides ECS adapters for piste stages.
//
// The primary adapter is [NewDonburiSink], which forwards stage key presses
// and frames into a [Donburi] world as typed events. Subscribe to
// [KeyEventType] or [FrameEventType] in your ECS systems to receive them.
//
// Usage:
//
//	stage.SetEventSink(ecs.NewDonburiSink(world))
//
// [Track] registers a sprite as an entity so systems can query it with
// [SpriteRef].
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
