package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/piste"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

type marker struct {
	piste.Entity
}

func (m *marker) DrawInner(piste.Surface) {}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitKey(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []piste.KeyEvent
	KeyEventType.Subscribe(world, func(w donburi.World, e piste.KeyEvent) {
		received = append(received, e)
	})

	sink.EmitKey(piste.KeyEvent{Key: "ArrowLeft"})
	sink.EmitKey(piste.KeyEvent{Key: " "})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before processing", len(received))
	}
	KeyEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Key != "ArrowLeft" || received[1].Key != " " {
		t.Errorf("keys = %q, %q", received[0].Key, received[1].Key)
	}
}

func TestDonburiSink_EmitFrame(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var got piste.FrameEvent
	FrameEventType.Subscribe(world, func(w donburi.World, e piste.FrameEvent) {
		got = e
	})
	sink.EmitFrame(piste.FrameEvent{Delta: 16 * time.Millisecond})
	events.ProcessAllEvents(world)

	if got.Delta != 16*time.Millisecond {
		t.Errorf("Delta = %v, want 16ms", got.Delta)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	KeyEventType.Subscribe(world, func(w donburi.World, e piste.KeyEvent) {
		count1++
	})
	KeyEventType.Subscribe(world, func(w donburi.World, e piste.KeyEvent) {
		count2++
	})

	sink.EmitKey(piste.KeyEvent{Key: "Enter"})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestTrackUntrack(t *testing.T) {
	world := donburi.NewWorld()
	a := &marker{Entity: piste.MakeEntity()}
	b := &marker{Entity: piste.MakeEntity()}
	Track(world, a)
	Track(world, b)

	count := func() int {
		n := 0
		EachSprite(world, func(piste.Sprite) { n++ })
		return n
	}
	if n := count(); n != 2 {
		t.Fatalf("tracked = %d, want 2", n)
	}

	Untrack(world, a)
	if n := count(); n != 1 {
		t.Fatalf("tracked after Untrack = %d, want 1", n)
	}
	EachSprite(world, func(sp piste.Sprite) {
		if sp != b {
			t.Errorf("remaining sprite = %v, want b", sp)
		}
	})
}
