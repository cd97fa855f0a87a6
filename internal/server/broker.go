package server

import "sync"

const (
	EventSubscribed   = "subscribed"
	EventPlayerJoined = "player_joined"
	EventGameReset    = "game_reset"
	EventGameClosed   = "game_closed"
)

// Event is published to a game's lobby subscribers. It never carries an
// assignment.
type Event struct {
	Type       string `json:"type"`
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName,omitempty"`
}

// Broker is an in-process pub/sub for lobby events, keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events for the given game.
func (b *Broker) Subscribe(gameID string) chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan Event]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(gameID string, ch chan Event) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of live subscriptions to gameID.
func (b *Broker) Subscribers(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[gameID])
}

// Publish sends an event to all subscribers of its game.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	for ch := range b.subs[event.GameID] {
		select {
		case ch <- event:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
