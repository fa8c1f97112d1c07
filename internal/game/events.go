package game

import (
	"slices"
	"sync"
	"time"

	"github.com/lox/holdem-table/poker"
)

// EventType identifies a game event
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeBlindPosted  EventType = "blind_posted"
	EventTypePlayerAction EventType = "player_action"
	EventTypeStreetChange EventType = "street_change"
	EventTypeHandEnd      EventType = "hand_end"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything that happens during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// SeatInfo is a player's position at the moment a hand starts
type SeatInfo struct {
	Seat   int
	Name   string
	Chips  int
	Human  bool
	Status Status
	Hole   []poker.Card
}

// HandStartEvent is published once blinds are posted and hole cards dealt.
// Seats carries the stacks as they were before the blinds.
type HandStartEvent struct {
	HandID         string
	Dealer         int
	SmallBlindSeat int
	BigBlindSeat   int
	Blinds         Blinds
	Seats          []SeatInfo
	timestamp      time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// BlindPostedEvent is published for each forced bet
type BlindPostedEvent struct {
	HandID    string
	Seat      int
	Name      string
	Amount    int
	Big       bool
	AllIn     bool
	timestamp time.Time
}

func (e BlindPostedEvent) EventType() EventType { return EventTypeBlindPosted }
func (e BlindPostedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published for every accepted action. Action is the
// action as applied, so a call with nothing owed is reported as a check.
type PlayerActionEvent struct {
	HandID    string
	Seat      int
	Name      string
	Stage     Stage
	Action    Action
	Paid      int
	BetTo     int
	PotAfter  int
	AllIn     bool
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// StreetChangeEvent is published when community cards are dealt. Runout is
// set when no further betting is possible.
type StreetChangeEvent struct {
	HandID    string
	Stage     Stage
	Board     []poker.Card
	Runout    bool
	timestamp time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published when the pot has been awarded
type HandEndEvent struct {
	HandID    string
	Result    Result
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// Publisher receives events as they happen
type Publisher interface {
	Publish(event GameEvent)
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Publisher
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
}

// SimpleEventBus delivers events synchronously in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Function subscribers cannot be compared
// and must be wrapped in a pointer type to be removable.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = slices.Delete(bus.subscribers, i, i+1)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := slices.Clone(bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}

// EventQueue buffers events until they are drained. The table uses it to
// publish outside of its lock.
type EventQueue struct {
	events []GameEvent
}

func (q *EventQueue) Publish(event GameEvent) {
	q.events = append(q.events, event)
}

// Drain returns the buffered events and empties the queue
func (q *EventQueue) Drain() []GameEvent {
	events := q.events
	q.events = nil
	return events
}

type discardPublisher struct{}

func (discardPublisher) Publish(GameEvent) {}
