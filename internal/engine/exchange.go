package engine

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// EventKind enumerates logic-thread requests the render thread acts on.
type EventKind int

const (
	EventNone EventKind = iota
	EventLevelChange
	EventToggleDebug
	EventQuit
)

// Event is a logic-thread-produced request. Payload meaning depends on the
// kind (e.g. the level path for EventLevelChange).
type Event struct {
	Kind    EventKind
	Payload string
}

// GameData is the immutable per-frame snapshot the logic thread publishes:
// where the camera should be, what it looks at, and which level is active.
type GameData struct {
	CameraPos    mgl32.Vec3
	CameraTarget mgl32.Vec3
	Level        string
}

// Exchange is the single handoff point between the logic thread (producer)
// and the render thread (consumer). Publish replaces the pending snapshot;
// Fetch takes the latest snapshot and swaps the event queue out under the
// same lock, so events are merged and cleared exactly once, with no separate
// "safe to clear" flag to race on.
type Exchange struct {
	mu      sync.Mutex
	data    GameData
	fresh   bool
	events  []Event
}

// Publish stores the latest snapshot. Older unfetched snapshots are
// replaced; the render thread only ever wants the newest one.
func (x *Exchange) Publish(data GameData) {
	x.mu.Lock()
	x.data = data
	x.fresh = true
	x.mu.Unlock()
}

// Post appends an event. Events accumulate until the next Fetch.
func (x *Exchange) Post(ev Event) {
	x.mu.Lock()
	x.events = append(x.events, ev)
	x.mu.Unlock()
}

// Fetch returns the newest snapshot, whether it changed since the last
// fetch, and all events posted since the last fetch. The critical section
// is a copy and a slice swap; the logic thread is never blocked longer
// than that.
func (x *Exchange) Fetch() (GameData, bool, []Event) {
	x.mu.Lock()
	data := x.data
	fresh := x.fresh
	x.fresh = false
	events := x.events
	x.events = nil
	x.mu.Unlock()
	return data, fresh, events
}
