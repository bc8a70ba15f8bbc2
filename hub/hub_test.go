package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hupe1980/drawboard/core"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newViewerServer upgrades each request, attaches the client with the frames
// seed returns, and runs the pumps.
func newViewerServer(h *Hub, seed func() [][]byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(h, conn)
		h.Attach(client, seed()...)
		client.Run()
	}))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame %q: %v", data, err)
	}
	return frame
}

func TestHub_SeedThenBroadcast(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	syncFrame, _ := json.Marshal(NewSyncMessage([]core.DrawEvent{
		core.NewDrawEvent("Picasso", core.Line{X1: 1, Y1: 2, X2: 3, Y2: 4, Color: "#000000", Width: 2}),
	}))
	cursorsFrame, _ := json.Marshal(NewCursorsMessage(map[string]CursorInfo{
		"sid-1": {AIName: "Picasso", AIID: "sid-1", X: 10, Y: 20},
	}))
	srv := newViewerServer(h, func() [][]byte { return [][]byte{syncFrame, cursorsFrame} })
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	frame := readFrame(t, conn)
	if frame["type"] != MsgSync {
		t.Fatalf("expected sync first, got %v", frame["type"])
	}
	if events, ok := frame["events"].([]any); !ok || len(events) != 1 {
		t.Fatalf("expected 1 seeded event, got %v", frame["events"])
	}

	frame = readFrame(t, conn)
	if frame["type"] != MsgCursors {
		t.Fatalf("expected cursors second, got %v", frame["type"])
	}

	h.Broadcast(NewDrawMessage(core.NewDrawEvent("Picasso", core.Clear{})))
	frame = readFrame(t, conn)
	if frame["type"] != MsgDraw {
		t.Fatalf("expected draw after seed, got %v", frame["type"])
	}
}

func TestHub_BroadcastReachesAllViewers(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	srv := newViewerServer(h, func() [][]byte { return nil })
	defer srv.Close()

	first := dial(t, srv)
	defer first.Close()
	second := dial(t, srv)
	defer second.Close()

	waitForClients(t, h, 2)
	h.Broadcast(NewDiagnosticMessage("Picasso", "out of ink"))

	for _, conn := range []*websocket.Conn{first, second} {
		frame := readFrame(t, conn)
		if frame["type"] != MsgDiagnostic || frame["detail"] != "out of ink" {
			t.Fatalf("unexpected frame: %v", frame)
		}
	}
}

func TestClient_ProtocolPing(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	srv := newViewerServer(h, func() [][]byte { return nil })
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitForClients(t, h, 1)

	// Garbage is ignored, the ping still gets its pong.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	frame := readFrame(t, conn)
	if frame["type"] != MsgPong {
		t.Fatalf("expected pong, got %v", frame)
	}
}

func TestHub_ClientCountTracksDisconnects(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	srv := newViewerServer(h, func() [][]byte { return nil })
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
}

// Attach rides the same queue as broadcasts: a viewer connecting in the
// middle of a stream must see every event exactly once, either in its sync
// seed or as a later draw frame.
func TestHub_MidStreamViewerSeesEveryEventOnce(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	const total = 50

	var mu sync.Mutex
	log := core.NewEventLog()

	submit := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		ev := core.NewDrawEvent("Picasso", core.Line{X1: float64(i), Y1: 0, X2: float64(i), Y2: 1, Color: "#000000", Width: 1})
		log.Append(ev)
		h.Broadcast(NewDrawMessage(ev))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(h, conn)
		mu.Lock()
		seed, _ := json.Marshal(NewSyncMessage(log.Snapshot()))
		h.Attach(client, seed)
		mu.Unlock()
		client.Run()
	}))
	defer srv.Close()

	go func() {
		for i := 0; i < total; i++ {
			submit(i)
		}
	}()

	conn := dial(t, srv)
	defer conn.Close()

	seen := make(map[int]int)
	record := func(x1 float64) { seen[int(x1)]++ }

	frame := readFrame(t, conn)
	if frame["type"] != MsgSync {
		t.Fatalf("expected sync first, got %v", frame["type"])
	}
	for _, raw := range frame["events"].([]any) {
		action := raw.(map[string]any)["action"].(map[string]any)
		record(action["x1"].(float64))
	}
	for len(seen) < total {
		frame = readFrame(t, conn)
		if frame["type"] != MsgDraw {
			t.Fatalf("unexpected frame type %v", frame["type"])
		}
		action := frame["event"].(map[string]any)["action"].(map[string]any)
		record(action["x1"].(float64))
	}

	for i := 0; i < total; i++ {
		if seen[i] != 1 {
			t.Fatalf("event %d delivered %d times", i, seen[i])
		}
	}
}

// A viewer that stops reading jams its queue; the hub must disconnect it
// without touching anyone else's stream.
func TestHub_SlowViewerDroppedOthersKeepStreaming(t *testing.T) {
	h := New(func(o *Options) { o.SendBuffer = 1 })
	go h.Run()
	defer h.Stop()

	srv := newViewerServer(h, func() [][]byte { return nil })
	defer srv.Close()

	healthy := dial(t, srv)
	defer healthy.Close()
	waitForClients(t, h, 1)

	// A client whose pumps never drain the queue stands in for a viewer
	// that went silent mid-stream.
	stalled := NewClient(h, nil)
	h.Attach(stalled)
	waitForClients(t, h, 2)

	// Reading between broadcasts keeps the healthy queue empty, so only the
	// stalled viewer overflows: its first frame jams the queue, the second
	// gets it dropped.
	expect := func(want string) {
		t.Helper()
		frame := readFrame(t, healthy)
		if frame["type"] != MsgDiagnostic || frame["detail"] != want {
			t.Fatalf("expected %q, got %v", want, frame)
		}
	}

	h.Broadcast(NewDiagnosticMessage("Picasso", "first"))
	expect("first")
	h.Broadcast(NewDiagnosticMessage("Picasso", "second"))
	expect("second")
	waitForClients(t, h, 1)

	h.Broadcast(NewDiagnosticMessage("Picasso", "third"))
	expect("third")
}

// Dropping a viewer signals its write pump, which sends a close frame and
// closes the socket; the peer sees the connection end rather than hanging.
func TestHub_DropClosesViewerConnection(t *testing.T) {
	h := New()
	go h.Run()
	defer h.Stop()

	clients := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(h, conn)
		clients <- client
		h.Attach(client)
		client.Run()
	}))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	client := <-clients
	waitForClients(t, h, 1)

	h.Detach(client)
	waitForClients(t, h, 0)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the connection to close after detach")
	}
}

func TestClient_TrySendNonBlocking(t *testing.T) {
	blocked := &Client{send: make(chan []byte)}
	if blocked.trySend([]byte("x")) {
		t.Fatal("unbuffered send must not block")
	}
	ready := &Client{send: make(chan []byte, 1)}
	if !ready.trySend([]byte("x")) {
		t.Fatal("buffered send must succeed")
	}
}

// A dropped viewer's readPump may still answer a ping already in flight;
// the late pong must be discarded, not crash the reader.
func TestClient_PongAfterDropDiscarded(t *testing.T) {
	h := New(func(o *Options) { o.SendBuffer = 1 })
	go h.Run()
	defer h.Stop()

	client := NewClient(h, nil)
	h.Attach(client)
	waitForClients(t, h, 1)

	h.Broadcast(NewDiagnosticMessage("Picasso", "fills the queue"))
	h.Broadcast(NewDiagnosticMessage("Picasso", "overflows it"))
	waitForClients(t, h, 0)

	if client.trySend(pongFrame) {
		t.Fatal("expected the pong to be discarded after the drop")
	}
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, have %d", want, h.ClientCount())
}
