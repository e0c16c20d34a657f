package kbsave

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func readScan(t *testing.T, url string) []scanEvent {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	defer conn.Close()

	var events []scanEvent
	for {
		var event scanEvent
		if err := conn.ReadJSON(&event); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("read: %v", err)
			}
			return events
		}
		events = append(events, event)
	}
}

func TestServeScanProgress(t *testing.T) {
	root := t.TempDir()
	writeSlot(t, root, "1700000000", sampleSave(t))
	app := newTestApp(t, root)

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/saves/1700000000/scan/ws"

	for _, cached := range []bool{false, true} {
		events := readScan(t, url)
		if len(events) != 3 {
			t.Fatalf("cached=%v: got %d events, want 3: %+v", cached, len(events), events)
		}

		for i, event := range events[:2] {
			if event.Type != eventShop || event.Index != i+1 || event.Total != 2 || event.Shop == nil {
				t.Errorf("cached=%v: event %d = %+v", cached, i, event)
			}
		}

		done := events[2]
		if done.Type != eventDone || done.Total != 2 || done.Cached != cached {
			t.Errorf("cached=%v: done = %+v", cached, done)
		}
	}
}

func TestServeScanProgressError(t *testing.T) {
	root := t.TempDir()
	writeSlot(t, root, "1700000000", []byte("garbage, not a container"))
	app := newTestApp(t, root)

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	events := readScan(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/saves/latest/scan/ws")
	if len(events) != 1 || events[0].Type != eventError || events[0].Error == "" {
		t.Errorf("events = %+v", events)
	}
}
