package ecs

import (
	"github.com/phanxgames/piste"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// KeyEventType is the Donburi event type for stage key presses.
var KeyEventType = events.NewEventType[piste.KeyEvent]()

// FrameEventType is the Donburi event type published once per stage frame,
// before sprite hooks run.
var FrameEventType = events.NewEventType[piste.FrameEvent]()

// SpriteData links an entity to a live sprite.
type SpriteData struct {
	Sprite piste.Sprite
}

// SpriteRef is the component holding a tracked sprite.
var SpriteRef = donburi.NewComponentType[SpriteData]()

var spriteQuery = donburi.NewQuery(filter.Contains(SpriteRef))

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued and delivered by events.ProcessAllEvents or ProcessEvents.
func NewDonburiSink(world donburi.World) piste.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitKey(ev piste.KeyEvent) {
	KeyEventType.Publish(s.world, ev)
}

func (s *donburiSink) EmitFrame(ev piste.FrameEvent) {
	FrameEventType.Publish(s.world, ev)
}

// Track creates an entity referencing sp.
func Track(world donburi.World, sp piste.Sprite) donburi.Entity {
	e := world.Create(SpriteRef)
	SpriteRef.SetValue(world.Entry(e), SpriteData{Sprite: sp})
	return e
}

// Untrack removes every entity referencing sp.
func Untrack(world donburi.World, sp piste.Sprite) {
	var doomed []donburi.Entity
	spriteQuery.Each(world, func(entry *donburi.Entry) {
		if SpriteRef.Get(entry).Sprite == sp {
			doomed = append(doomed, entry.Entity())
		}
	})
	for _, e := range doomed {
		world.Remove(e)
	}
}

// EachSprite calls fn for every tracked sprite.
func EachSprite(world donburi.World, fn func(piste.Sprite)) {
	spriteQuery.Each(world, func(entry *donburi.Entry) {
		fn(SpriteRef.Get(entry).Sprite)
	})
}
