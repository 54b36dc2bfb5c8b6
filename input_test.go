package piste

import (
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyboardDispatchOrAggregates(t *testing.T) {
	k := NewKeyboardSource()
	var got []string
	k.Listen(func(key string) bool { got = append(got, "1:"+key); return false })
	k.Listen(func(key string) bool { got = append(got, "2:"+key); return true })
	k.Listen(func(key string) bool { got = append(got, "3:"+key); return false })

	if !k.Dispatch("x") {
		t.Error("Dispatch = false, want true")
	}
	want := []string{"1:x", "2:x", "3:x"}
	if !slices.Equal(got, want) {
		t.Errorf("listeners ran %v, want %v", got, want)
	}
}

func TestKeyboardUnhandled(t *testing.T) {
	k := NewKeyboardSource()
	suppress := false
	k.Listen(func(string) bool { return suppress })
	var unhandled []string
	k.Unhandled = func(key string) { unhandled = append(unhandled, key) }

	k.Dispatch("Escape")
	suppress = true
	k.Dispatch("Backspace")

	if !slices.Equal(unhandled, []string{"Escape"}) {
		t.Errorf("Unhandled got %v, want [Escape]", unhandled)
	}
}

func TestKeyboardListenCancel(t *testing.T) {
	k := NewKeyboardSource()
	calls := 0
	cancel := k.Listen(func(string) bool { calls++; return false })
	k.Listen(func(string) bool { return false })
	if k.ListenerCount() != 2 {
		t.Fatalf("ListenerCount = %d, want 2", k.ListenerCount())
	}
	cancel()
	cancel()
	if k.ListenerCount() != 1 {
		t.Fatalf("ListenerCount = %d after cancel, want 1", k.ListenerCount())
	}
	k.Dispatch("a")
	if calls != 0 {
		t.Error("cancelled listener was called")
	}
}

func TestKeyboardListenerCancelDuringDispatch(t *testing.T) {
	k := NewKeyboardSource()
	var cancelB func()
	bCalls := 0
	k.Listen(func(string) bool { cancelB(); return false })
	cancelB = k.Listen(func(string) bool { bCalls++; return false })

	k.Dispatch("a")
	if bCalls != 1 {
		t.Errorf("bCalls = %d, want the snapshot to still include b", bCalls)
	}
	k.Dispatch("a")
	if bCalls != 1 {
		t.Errorf("bCalls = %d after cancel, want 1", bCalls)
	}
}

func TestInjectKeyQueue(t *testing.T) {
	k := NewKeyboardSource()
	var got []string
	k.Listen(func(key string) bool { got = append(got, key); return false })

	k.InjectKey("ArrowLeft")
	k.InjectText("ab")
	if k.PendingInjected() != 3 {
		t.Fatalf("PendingInjected = %d, want 3", k.PendingInjected())
	}
	for k.processInjected() {
	}
	if !slices.Equal(got, []string{"ArrowLeft", "a", "b"}) {
		t.Errorf("dispatched %v", got)
	}
	if k.processInjected() {
		t.Error("processInjected on an empty queue returned true")
	}
}

func TestStageListensToKeyboardSource(t *testing.T) {
	k := NewKeyboardSource()
	sched := &manualScheduler{}
	s := NewStage(newRecordingSurface(100, 100), k, sched)
	sp := newBoxSprite("a", 0, 0)
	sp.keyReply = true
	s.AddSprite(sp)
	unhandled := 0
	k.Unhandled = func(string) { unhandled++ }

	s.Start()
	k.InjectKey(" ")
	k.processInjected()
	if !slices.Equal(sp.keys, []string{" "}) {
		t.Errorf("sprite keys = %q", sp.keys)
	}
	if unhandled != 0 {
		t.Error("suppressed key reached Unhandled")
	}

	s.Stop()
	if k.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d after Stop, want 0", k.ListenerCount())
	}
}

func TestControlKeyName(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want string
		ok   bool
	}{
		{ebiten.KeyArrowLeft, "ArrowLeft", true},
		{ebiten.KeyEnter, "Enter", true},
		{ebiten.KeyNumpadEnter, "Enter", true},
		{ebiten.KeyBackspace, "Backspace", true},
		{ebiten.KeyEscape, "Escape", true},
		{ebiten.KeyA, "", false},
		{ebiten.KeySpace, "", false},
	}
	for _, tt := range tests {
		got, ok := controlKeyName(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("controlKeyName(%v) = %q, %v, want %q, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}
