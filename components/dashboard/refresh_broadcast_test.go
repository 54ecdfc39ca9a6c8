package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchBroadcasterSubscribe(t *testing.T) {
	next := &recordingFetcher{}
	hub := NewFetchBroadcaster(next)
	ch, cancel := hub.Subscribe()
	defer cancel()

	req := FetchRequest{ID: "r1", ItemID: 3, WidgetID: 7, RenderType: RenderClear}
	hub.FetchChartData(context.Background(), req)

	select {
	case got := <-ch:
		if got.ID != "r1" || got.ItemID != 3 {
			t.Fatalf("unexpected request %+v", got)
		}
	default:
		t.Fatalf("expected request to be delivered")
	}
	if len(next.all()) != 1 {
		t.Fatalf("expected next fetcher to receive the request")
	}
}

func TestFetchBroadcasterCancelClosesChannel(t *testing.T) {
	hub := NewFetchBroadcaster(nil)
	ch, cancel := hub.Subscribe()
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	hub.FetchChartData(context.Background(), FetchRequest{ID: "after"})
}

func TestFetchBroadcasterDropsForSlowSubscribers(t *testing.T) {
	hub := NewFetchBroadcaster(nil)
	_, cancel := hub.Subscribe()
	defer cancel()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.FetchChartData(context.Background(), FetchRequest{ItemID: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("fan-out blocked on a full subscriber")
	}
}

func TestFetchBroadcasterServeSSE(t *testing.T) {
	hub := NewFetchBroadcaster(nil)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	served := make(chan struct{})
	go func() {
		hub.ServeSSE(rec, req)
		close(served)
	}()

	deadline := time.After(time.Second)
	for {
		hub.mu.RLock()
		subscribed := len(hub.subs) > 0
		hub.mu.RUnlock()
		if subscribed {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("stream never subscribed")
		case <-time.After(time.Millisecond):
		}
	}
	hub.FetchChartData(context.Background(), FetchRequest{ID: "sse-1", ItemID: 4})
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-served

	body := rec.Body.String()
	if !strings.Contains(body, `data: {"id":"sse-1"`) {
		t.Fatalf("expected SSE frame, got %q", body)
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}
