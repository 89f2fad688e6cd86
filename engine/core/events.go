package core

import "sync"

// EventContext carries the payload of a fired event.
type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A synced mesh was created and attached to the scene.
	/* Context usage:
	 * data.Data.(*MeshEvent)
	 */
	EVENT_CODE_MESH_ADDED SystemEventCode = 0x10

	// A synced mesh was torn down because its sensor mesh left the feed.
	EVENT_CODE_MESH_REMOVED SystemEventCode = 0x11

	// A synced mesh was torn down because it failed visibility culling.
	EVENT_CODE_MESH_CULLED SystemEventCode = 0x12

	// A physics registrar was attached and existing meshes were backfilled.
	/* Context usage:
	 * data.Data.(int) number of meshes registered
	 */
	EVENT_CODE_PHYSICS_ATTACHED SystemEventCode = 0x13

	// The config file changed and was applied.
	EVENT_CODE_CONFIG_RELOADED SystemEventCode = 0x14

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// MeshEvent is the payload of the mesh lifecycle events.
type MeshEvent struct {
	MeshID uint32
	Name   string
	Label  string
	Time   float64
}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches events synchronously to the listeners registered for a
// code, in registration order.
type EventBus struct {
	mu         sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 */
func (eb *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil {
		return false
	}
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, e := range eb.registered[code] {
		if listener != nil && e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eb.registered[code] = append(eb.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func (eb *EventBus) Unregister(code SystemEventCode, listener interface{}) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	events := eb.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eb.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func (eb *EventBus) Fire(code SystemEventCode, sender interface{}, data interface{}) bool {
	if eb == nil {
		return false
	}
	eb.mu.RLock()
	events := make([]*registeredEvent, len(eb.registered[code]))
	copy(events, eb.registered[code])
	eb.mu.RUnlock()

	ctx := EventContext{Type: code, Data: data}
	for _, e := range events {
		if e.callback(code, sender, e.listener, ctx) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// Shutdown drops every registration.
func (eb *EventBus) Shutdown() error {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.registered = make(map[SystemEventCode][]*registeredEvent)
	return nil
}
