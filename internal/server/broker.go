package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/tictactoe/internal/matches"
)

// feedTopic carries recent-matches refreshes.
const feedTopic = "feed"

// FeedEvent is published after every recorded game.
type FeedEvent struct {
	Type string       `json:"type"`
	Feed matches.Feed `json:"feed"`
}

// Broker is an in-process pub/sub for SSE events, keyed by topic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for topic.
func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Subscribers reports how many channels listen on topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Publish sends event to every subscriber of topic and reports how many
// received it. Subscribers whose buffer is full miss the event.
func (b *Broker) Publish(topic string, event any) int {
	data, err := json.Marshal(event)
	if err != nil {
		return 0
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for ch := range b.subs[topic] {
		select {
		case ch <- data:
			delivered++
		default:
			// Feed events carry the whole feed, so the next one catches a
			// lagging listener up.
		}
	}
	return delivered
}

// PublishFeed fans a refreshed feed out to SSE listeners.
func (b *Broker) PublishFeed(f matches.Feed) {
	b.Publish(feedTopic, FeedEvent{Type: "feed", Feed: f})
}
