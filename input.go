package piste

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyListener receives a key name and reports whether the key's default
// action should be suppressed.
type KeyListener func(key string) (preventDefault bool)

// KeySource supplies key presses. Listen registers fn until the returned
// cancel func is called.
type KeySource interface {
	Listen(fn KeyListener) (cancel func())
}

type keyListener struct {
	id uint32
	fn KeyListener
}

// KeyboardSource turns Ebitengine keyboard state into key names. Printable
// characters arrive as the typed text ("a", "A", "!", " "); other keys use
// their Ebitengine names ("ArrowLeft", "Enter", "Backspace", "Escape").
//
// Call Poll once per tick from Update.
type KeyboardSource struct {
	listeners []keyListener
	nextID    uint32

	injectQueue []string

	keyBuf  []ebiten.Key
	charBuf []rune
	listBuf []keyListener

	// Unhandled, if set, receives keys no listener suppressed. This is the
	// key's default action, e.g. quitting on Escape.
	Unhandled func(key string)
}

// NewKeyboardSource creates a source with no listeners.
func NewKeyboardSource() *KeyboardSource {
	return &KeyboardSource{}
}

// Listen registers fn. Listeners run in registration order.
func (k *KeyboardSource) Listen(fn KeyListener) (cancel func()) {
	k.nextID++
	id := k.nextID
	k.listeners = append(k.listeners, keyListener{id: id, fn: fn})
	return func() {
		k.listeners = removeKeyListener(k.listeners, id)
	}
}

func removeKeyListener(s []keyListener, id uint32) []keyListener {
	for i, l := range s {
		if l.id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = keyListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

// ListenerCount returns the number of registered listeners.
func (k *KeyboardSource) ListenerCount() int {
	return len(k.listeners)
}

// Poll dispatches one queued injected key, or else every key pressed this
// tick. Injected keys replace real input for the tick they are consumed.
func (k *KeyboardSource) Poll() {
	if k.processInjected() {
		return
	}

	k.keyBuf = inpututil.AppendJustPressedKeys(k.keyBuf[:0])
	for _, key := range k.keyBuf {
		if name, ok := controlKeyName(key); ok {
			k.Dispatch(name)
		}
	}
	k.charBuf = ebiten.AppendInputChars(k.charBuf[:0])
	for _, r := range k.charBuf {
		k.Dispatch(string(r))
	}
}

// Dispatch delivers key to every listener and runs Unhandled when none of
// them suppressed it. It returns whether the key was suppressed.
func (k *KeyboardSource) Dispatch(key string) bool {
	k.listBuf = append(k.listBuf[:0], k.listeners...)
	prevent := false
	for _, l := range k.listBuf {
		prevent = l.fn(key) || prevent
	}
	clear(k.listBuf)
	if !prevent && k.Unhandled != nil {
		k.Unhandled(key)
	}
	return prevent
}

// controlKeyName names keys that do not produce text. Printable keys are
// reported through their input characters instead.
func controlKeyName(key ebiten.Key) (string, bool) {
	switch key {
	case ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowUp, ebiten.KeyArrowDown,
		ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeyBackspace, ebiten.KeyEscape,
		ebiten.KeyTab, ebiten.KeyDelete, ebiten.KeyInsert,
		ebiten.KeyHome, ebiten.KeyEnd, ebiten.KeyPageUp, ebiten.KeyPageDown,
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
		ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12:
	default:
		return "", false
	}
	if key == ebiten.KeyNumpadEnter {
		return "Enter", true
	}
	return key.String(), true
}
