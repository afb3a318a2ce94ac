// Package sse fans session events out to any number of subscribed renderers
// over Server-Sent Events channels.
package sse

import (
	"log"
	"sync"
	"time"
)

// sendTimeout bounds how long a broadcast waits on one slow subscriber.
const sendTimeout = time.Second

// Event is a single server-sent event.
type Event struct {
	Name string
	Data string
}

// Broadcaster keys subscriber channels by session ID.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a new channel for the given session's events.
func (b *Broadcaster) Subscribe(id string) chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[id] == nil {
		b.subs[id] = make(map[chan Event]struct{})
	}
	b.subs[id][ch] = struct{}{}
	return ch
}

// Unsubscribe removes a channel. The caller stops reading afterwards.
func (b *Broadcaster) Unsubscribe(id string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[id]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(b.subs, id)
		}
	}
}

// Broadcast sends an event to every subscriber of the session. Sends happen
// under the read lock so Close cannot close a channel mid-send; the send
// timeout keeps one slow client from stalling the session.
func (b *Broadcaster) Broadcast(id, name, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ev := Event{Name: name, Data: data}
	for ch := range b.subs[id] {
		select {
		case ch <- ev:
		case <-time.After(sendTimeout):
			log.Printf("sse: dropping %s event for session %s, subscriber not draining", name, id)
		}
	}
}

// Close drops every subscriber of the session, closing their channels so
// handlers unblock.
func (b *Broadcaster) Close(id string) {
	b.mu.Lock()
	set := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()

	for ch := range set {
		close(ch)
	}
}
