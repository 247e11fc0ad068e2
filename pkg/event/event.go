// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Event types raised by the collision world and the simulation.
const (
	BodyCollided      Type = "body_collided"
	BodyOverlapped    Type = "body_overlapped"
	TileCollided      Type = "tile_collided"
	WorldBoundsHit    Type = "world_bounds_hit"
	MoveCompleted     Type = "move_completed"
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	ConfigReloaded    Type = "config_reloaded"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	ID        uint64
	EventType Type
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})
	return &Subscription{ID: id, EventType: eventType}
}

// Unsubscribe removes the handler registered under sub.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[sub.EventType]
	for i, s := range subs {
		if s.id == sub.ID {
			b.handlers[sub.EventType] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// CollisionEvent reports a resolved collision or a detected overlap
// between two body owners, in the order the pair was tested.
type CollisionEvent struct {
	BaseEvent
	A interface{}
	B interface{}
}

// NewCollisionEvent creates a BodyCollided or BodyOverlapped event.
func NewCollisionEvent(source interface{}, a, b interface{}, overlapOnly bool) *CollisionEvent {
	t := BodyCollided
	if overlapOnly {
		t = BodyOverlapped
	}
	return &CollisionEvent{
		BaseEvent: BaseEvent{EventType: t, Source: source},
		A:         a,
		B:         b,
	}
}

// TileEvent reports a body owner separated from (or overlapping) a tile.
type TileEvent struct {
	BaseEvent
	Owner interface{}
	Tile  interface{}
}

// NewTileEvent creates a TileCollided event.
func NewTileEvent(source interface{}, owner, tile interface{}) *TileEvent {
	return &TileEvent{
		BaseEvent: BaseEvent{EventType: TileCollided, Source: source},
		Owner:     owner,
		Tile:      tile,
	}
}

// WorldBoundsEvent reports which world edges a body was clamped against.
type WorldBoundsEvent struct {
	BaseEvent
	Owner interface{}
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// NewWorldBoundsEvent creates a WorldBoundsHit event.
func NewWorldBoundsEvent(source interface{}, owner interface{}, up, down, left, right bool) *WorldBoundsEvent {
	return &WorldBoundsEvent{
		BaseEvent: BaseEvent{EventType: WorldBoundsHit, Source: source},
		Owner:     owner,
		Up:        up,
		Down:      down,
		Left:      left,
		Right:     right,
	}
}

// MoveCompleteEvent reports the end of a MoveTo/MoveFrom movement.
type MoveCompleteEvent struct {
	BaseEvent
	Owner    interface{}
	Collided bool
}

// NewMoveCompleteEvent creates a MoveCompleted event.
func NewMoveCompleteEvent(source interface{}, owner interface{}, collided bool) *MoveCompleteEvent {
	return &MoveCompleteEvent{
		BaseEvent: BaseEvent{EventType: MoveCompleted, Source: source},
		Owner:     owner,
		Collided:  collided,
	}
}

// SimulationEvent marks simulation lifecycle changes.
type SimulationEvent struct {
	BaseEvent
	Tick uint64
}

// NewSimulationEvent creates a simulation lifecycle event.
func NewSimulationEvent(eventType Type, source interface{}, tick uint64) *SimulationEvent {
	return &SimulationEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Tick:      tick,
	}
}

// ConfigEvent reports a configuration file that was reloaded.
type ConfigEvent struct {
	BaseEvent
	Path string
}

// NewConfigEvent creates a ConfigReloaded event.
func NewConfigEvent(source interface{}, path string) *ConfigEvent {
	return &ConfigEvent{
		BaseEvent: BaseEvent{EventType: ConfigReloaded, Source: source},
		Path:      path,
	}
}
