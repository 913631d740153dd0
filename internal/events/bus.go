package events

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/KirkDiggler/state-accumulation/internal/uuid"
)

// EventListener processes events
type EventListener interface {
	HandleEvent(event *Event) error
	Priority() int
	ID() string
}

// Bus delivers events synchronously in priority order
type Bus struct {
	listeners map[EventType][]EventListener
	ids       uuid.Generator
	mu        sync.RWMutex
}

// NewBus creates a new event bus
func NewBus(ids uuid.Generator) *Bus {
	if ids == nil {
		ids = uuid.NewTimeOrdered()
	}
	return &Bus{
		listeners: make(map[EventType][]EventListener),
		ids:       ids,
	}
}

// Subscribe adds a listener for an event type
func (b *Bus) Subscribe(eventType EventType, listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], listener)
	sort.SliceStable(b.listeners[eventType], func(i, j int) bool {
		return b.listeners[eventType][i].Priority() < b.listeners[eventType][j].Priority()
	})

	log.Printf("EventBus: Subscribed listener %s to event %s with priority %d",
		listener.ID(), eventType, listener.Priority())
}

// Unsubscribe removes a listener
func (b *Bus) Unsubscribe(eventType EventType, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		b.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
		log.Printf("EventBus: Unsubscribed listener %s from event %s", listenerID, eventType)
		return
	}
}

// Emit stamps the event with an id and sends it to the listeners
func (b *Bus) Emit(event *Event) error {
	if event.ID == "" {
		event.ID = b.ids.New()
	}

	b.mu.RLock()
	listeners := make([]EventListener, len(b.listeners[event.Type]))
	copy(listeners, b.listeners[event.Type])
	b.mu.RUnlock()

	for _, listener := range listeners {
		if event.IsCancelled() {
			break
		}
		if err := listener.HandleEvent(event); err != nil {
			return fmt.Errorf("listener %s failed: %w", listener.ID(), err)
		}
	}

	return nil
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[EventType][]EventListener)
}

type funcListener struct {
	id       string
	priority int
	fn       func(*Event) error
}

func (l *funcListener) HandleEvent(e *Event) error { return l.fn(e) }
func (l *funcListener) Priority() int             { return l.priority }
func (l *funcListener) ID() string                { return l.id }

// NewListener adapts a function to EventListener
func NewListener(id string, priority int, fn func(*Event) error) EventListener {
	return &funcListener{id: id, priority: priority, fn: fn}
}

// NewAuthorWarningListener logs formula failures for the content author
func NewAuthorWarningListener() EventListener {
	return NewListener("author-warnings", PriorityLog, func(e *Event) error {
		log.Printf("[ACCUMULATION] WARNING: custom formula failed for %s (state %d), using 0: %v",
			e.CharacterID, e.StateID, e.Err)
		return nil
	})
}

// BattleLogEvents are the accumulation changes written to the battle log
var BattleLogEvents = []EventType{
	OnAccumulated,
	OnStateActivated,
	OnStateRemoved,
	OnStatesCleared,
	OnBattleEndReset,
}

// NewBattleLogListener writes accumulation changes to the log
func NewBattleLogListener() EventListener {
	return NewListener("battle-log", PriorityLog, func(e *Event) error {
		switch e.Type {
		case OnAccumulated:
			log.Printf("[ACCUMULATION] %s state %d %+.3f, now %.3f", e.CharacterID, e.StateID, e.Value, e.Total)
		case OnStateActivated:
			log.Printf("[ACCUMULATION] State %d activated on %s at %.3f", e.StateID, e.CharacterID, e.Total)
		case OnStateRemoved:
			log.Printf("[ACCUMULATION] State %d removed from %s, accumulation zeroed", e.StateID, e.CharacterID)
		case OnStatesCleared:
			log.Printf("[ACCUMULATION] All states cleared on %s, accumulation and immunity dropped", e.CharacterID)
		case OnBattleEndReset:
			log.Printf("[ACCUMULATION] Battle end reset state %d on %s from %.3f", e.StateID, e.CharacterID, e.Value)
		}
		return nil
	})
}
