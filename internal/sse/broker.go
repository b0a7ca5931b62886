// Package sse pushes catalog change notifications to browsers over Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Event types emitted by the broker.
const (
	EventCatalogUpdated    = "catalog.updated"
	EventSearchInvalidated = "search.invalidated"
)

// keepAlive is the interval of comment frames that hold idle streams open
// through proxies.
const keepAlive = 25 * time.Second

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Broker fans catalog events out to connected clients.
//
// Every reload produces one catalog.updated event per changed collection and
// at most one search.invalidated event per throttle window. Reloads landing
// inside a window are merged into a single trailing invalidation that names
// all collections touched since the last one.
type Broker struct {
	throttle time.Duration

	mu             sync.Mutex
	clients        map[chan []byte]struct{}
	closed         bool
	lastInvalidate time.Time
	pending        map[string]struct{}
	trailing       *time.Timer
}

// NewBroker creates a broker that emits at most one search.invalidated
// event per throttle interval.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	return &Broker{
		throttle: throttle,
		clients:  make(map[chan []byte]struct{}),
		pending:  make(map[string]struct{}),
	}
}

// Subscribe registers a client. The channel is closed by Unsubscribe or Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.clients[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Publish sends an arbitrary event to all connected clients.
func (b *Broker) Publish(event Event) {
	frame, err := encode(event)
	if err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendLocked(frame)
}

// PublishReload announces the collections rewritten by one catalog reload.
func (b *Broker) PublishReload(collections ...string) {
	if len(collections) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for _, c := range collections {
		if frame, err := encode(Event{Type: EventCatalogUpdated, Data: map[string]string{"collection": c}}); err == nil {
			b.sendLocked(frame)
		}
		b.pending[c] = struct{}{}
	}

	if b.trailing != nil {
		return
	}
	wait := b.throttle - time.Since(b.lastInvalidate)
	if wait <= 0 {
		b.invalidateLocked()
		return
	}
	b.trailing = time.AfterFunc(wait, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.trailing = nil
		if !b.closed {
			b.invalidateLocked()
		}
	})
}

func (b *Broker) invalidateLocked() {
	names := make([]string, 0, len(b.pending))
	for c := range b.pending {
		names = append(names, c)
	}
	sort.Strings(names)
	clear(b.pending)
	b.lastInvalidate = time.Now()

	if frame, err := encode(Event{Type: EventSearchInvalidated, Data: map[string][]string{"collections": names}}); err == nil {
		b.sendLocked(frame)
	}
}

// sendLocked drops the frame for clients whose buffer is full.
func (b *Broker) sendLocked(frame []byte) {
	for ch := range b.clients {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Close disconnects every client and cancels a pending invalidation.
// It is safe to call more than once.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.trailing != nil {
		b.trailing.Stop()
		b.trailing = nil
	}
	for ch := range b.clients {
		close(ch)
	}
	clear(b.clients)
}

func encode(event Event) ([]byte, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)), nil
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case frame, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(frame)
			flusher.Flush()
		}
	}
}
