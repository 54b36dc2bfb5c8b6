package piste

// InjectKey queues a synthetic key press. It is consumed on the next Poll
// and dispatched exactly like real input, so scripted runs and tests can
// drive a stage without a keyboard.
func (k *KeyboardSource) InjectKey(key string) {
	k.injectQueue = append(k.injectQueue, key)
}

// InjectText queues one key press per character of s.
func (k *KeyboardSource) InjectText(s string) {
	for _, r := range s {
		k.InjectKey(string(r))
	}
}

// PendingInjected returns the number of queued synthetic keys.
func (k *KeyboardSource) PendingInjected() int {
	return len(k.injectQueue)
}

// processInjected pops one key from the inject queue and dispatches it.
// Returns true if a key was consumed (real keyboard input should be skipped).
func (k *KeyboardSource) processInjected() bool {
	if len(k.injectQueue) == 0 {
		return false
	}
	key := k.injectQueue[0]
	copy(k.injectQueue, k.injectQueue[1:])
	k.injectQueue = k.injectQueue[:len(k.injectQueue)-1]
	k.Dispatch(key)
	return true
}
