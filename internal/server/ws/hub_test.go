package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func waitClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
}

func TestBroadcastReachesClient(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()

	ts := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitClients(t, h, 1)

	h.Broadcast(map[string]string{"hello": "world"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]string
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if got["hello"] != "world" {
		t.Errorf("got %v", got)
	}
}

func TestSlowClientDropped(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()

	upgraded := make(chan *websocket.Conn, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		upgraded <- conn
	}))
	defer ts.Close()

	dialConn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer dialConn.Close()

	// Register a client with an unbuffered send channel and no write pump,
	// so the first broadcast finds it unable to accept the message.
	c := &client{hub: h, conn: <-upgraded, send: make(chan []byte)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	h.Broadcast(map[string]string{"k": "v"})

	waitClients(t, h, 0)
}

func TestHandleWSAfterClose(t *testing.T) {
	h := NewHub(zap.NewNop())
	ts := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer ts.Close()

	h.Close()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}

	if _, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil); err == nil {
		t.Error("dial succeeded after Close")
	}
	if h.ClientCount() != 0 {
		t.Errorf("client count = %d after Close", h.ClientCount())
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	h := NewHub(zap.NewNop())
	ts := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitClients(t, h, 1)

	h.Close()
	waitClients(t, h, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("read succeeded after hub Close")
	}
}
