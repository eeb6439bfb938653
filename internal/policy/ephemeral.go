package policy

import "sync"

// watchQuota is how many updates a /watch command reports before it
// expires on its own.
const watchQuota = 20

// Ephemeral holds policy state that intentionally does not survive a
// restart: tide mode (anti-raid emergency switch) and debug watches.
// Keeping it out of Cache makes "not persisted" a type-level fact.
type Ephemeral struct {
	mu        sync.Mutex
	tideChats map[int64]struct{}
	watchLeft map[int64]int
}

func NewEphemeral() *Ephemeral {
	return &Ephemeral{
		tideChats: make(map[int64]struct{}),
		watchLeft: make(map[int64]int),
	}
}

// ToggleTide flips tide mode for a chat and returns the new state
func (e *Ephemeral) ToggleTide(chatID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tideChats[chatID]; ok {
		delete(e.tideChats, chatID)
		return false
	}
	e.tideChats[chatID] = struct{}{}
	return true
}

func (e *Ephemeral) TideActive(chatID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.tideChats[chatID]
	return ok
}

// SetWatch arms a debug watch on a chat with the full report quota
func (e *Ephemeral) SetWatch(chatID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watchLeft[chatID] = watchQuota
}

// ConsumeWatch takes one report slot for the chat. It returns true while
// quota remains; at zero the watch is dropped.
func (e *Ephemeral) ConsumeWatch(chatID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	left, ok := e.watchLeft[chatID]
	if !ok {
		return false
	}
	if left <= 0 {
		delete(e.watchLeft, chatID)
		return false
	}
	e.watchLeft[chatID] = left - 1
	return true
}

func (e *Ephemeral) ClearWatch(chatID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.watchLeft, chatID)
}
