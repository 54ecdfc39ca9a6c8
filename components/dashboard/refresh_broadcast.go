package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// FetchBroadcaster fans fetch requests out to in-process subscribers. It is a
// Fetcher, so items can be wired to it directly; Next, when set, also receives
// every request.
type FetchBroadcaster struct {
	Next Fetcher

	mu   sync.RWMutex
	subs map[int]chan FetchRequest
	next int
}

// NewFetchBroadcaster creates a broadcaster forwarding to next (may be nil).
func NewFetchBroadcaster(next Fetcher) *FetchBroadcaster {
	return &FetchBroadcaster{
		Next: next,
		subs: make(map[int]chan FetchRequest),
	}
}

// FetchChartData implements Fetcher. Slow subscribers drop requests.
func (h *FetchBroadcaster) FetchChartData(ctx context.Context, req FetchRequest) {
	h.mu.RLock()
	for _, ch := range h.subs {
		select {
		case ch <- req:
		default:
		}
	}
	h.mu.RUnlock()
	if h.Next != nil {
		h.Next.FetchChartData(ctx, req)
	}
}

// Subscribe returns a channel of fetch requests and a cancel func.
func (h *FetchBroadcaster) Subscribe() (<-chan FetchRequest, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan FetchRequest, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// ServeSSE provides a Server-Sent Events endpoint for fetch requests.
func (h *FetchBroadcaster) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case req, ok := <-events:
			if !ok {
				return
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if err := encoder.Encode(req); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
