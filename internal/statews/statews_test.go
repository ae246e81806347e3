package statews

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mj1618/weel/internal/actions"
	"github.com/mj1618/weel/internal/deck"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout: %s", msg)
}

func startHub(t *testing.T, sendBuf int) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(discard, HubConfig{SendBuf: sendBuf, BroadcastBuf: 8})
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func register(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	hub.register <- c
	waitUntil(t, 500*time.Millisecond, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		_, ok := hub.clients[c]
		return ok
	}, "client not registered in time")
}

func TestHub_BroadcastDeliveredToAllClients(t *testing.T) {
	hub := startHub(t, 4)
	c1 := NewClient(hub, nil, "c1", discard)
	c2 := NewClient(hub, nil, "c2", discard)
	register(t, hub, c1)
	register(t, hub, c2)

	msg := []byte(`{"type":"state"}`)
	hub.broadcast <- msg

	for _, c := range []*Client{c1, c2} {
		select {
		case got := <-c.send:
			if string(got) != string(msg) {
				t.Fatalf("%s got %q", c.remoteAddr, got)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for %s", c.remoteAddr)
		}
	}
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	hub := startHub(t, 1)
	slow := NewClient(hub, nil, "slow", discard)
	fast := &Client{hub: hub, send: make(chan []byte, 8), remoteAddr: "fast", logger: discard}
	register(t, hub, slow)
	register(t, hub, fast)

	slow.send <- []byte(`"queued"`)
	msg := []byte(`{"type":"state"}`)
	hub.broadcast <- msg

	select {
	case got := <-fast.send:
		if string(got) != string(msg) {
			t.Fatalf("fast got %q", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for fast client")
	}

	<-slow.send
	waitUntil(t, 750*time.Millisecond, func() bool {
		select {
		case _, ok := <-slow.send:
			return !ok
		default:
			return false
		}
	}, "slow send channel not closed")
	if hub.Len() != 1 {
		t.Errorf("clients = %d", hub.Len())
	}
	if slow.trySend([]byte("late")) {
		t.Error("trySend succeeded on a closed client")
	}
}

type fakeDeck struct {
	mu      sync.Mutex
	state   deck.State
	pressed []int
	subs    []func(deck.State)
	// block, when set, holds presses of slot 0 until it is closed.
	block chan struct{}
}

func (d *fakeDeck) State() deck.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *fakeDeck) Subscribe(fn func(deck.State)) func() {
	d.mu.Lock()
	d.subs = append(d.subs, fn)
	d.mu.Unlock()
	return func() {}
}

func (d *fakeDeck) Press(_ context.Context, index int) (actions.Result, error) {
	if index > 14 {
		return actions.Result{}, deck.ErrNoButton
	}
	if index == 0 && d.block != nil {
		<-d.block
	}
	d.mu.Lock()
	d.pressed = append(d.pressed, index)
	d.mu.Unlock()
	return actions.Result{Success: true, Message: "pressed"}, nil
}

func (d *fakeDeck) PressID(_ context.Context, id string) (actions.Result, error) {
	return actions.Result{Success: true, Message: "pressed " + id}, nil
}

func (d *fakeDeck) GoToPage(_ context.Context, n int) error {
	if n != 1 {
		return deck.ErrInvalidPage
	}
	return nil
}

func (d *fakeDeck) SwitchProfile(_ context.Context, ref string) error {
	return errors.New("profile not found")
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestServer_EndToEnd(t *testing.T) {
	d := &fakeDeck{state: deck.State{ProfileID: "p1", ProfileName: "Default", Page: 1, PageCount: 2}}
	s := NewServer(d, discard, HubConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Hub().Run(ctx)

	mux := http.NewServeMux()
	s.Register(mux, "/ws")
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	first := readFrame(t, conn)
	if first.Type != "state_init" || !strings.Contains(string(first.Data), `"profileName":"Default"`) {
		t.Fatalf("first = %s %s", first.Type, first.Data)
	}

	if err := conn.WriteJSON(map[string]any{"type": "press", "data": map[string]any{"index": 3}}); err != nil {
		t.Fatal(err)
	}
	res := readFrame(t, conn)
	if res.Type != "action_result" || !strings.Contains(string(res.Data), `"success":true`) {
		t.Errorf("press reply = %s %s", res.Type, res.Data)
	}

	if err := conn.WriteJSON(map[string]any{"type": "go_to_page", "data": map[string]any{"page": 5}}); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(t, conn); f.Type != "error" {
		t.Errorf("bad page reply = %s", f.Type)
	}

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(t, conn); f.Type != "error" || !strings.Contains(string(f.Data), "unknown message type") {
		t.Errorf("unknown reply = %s %s", f.Type, f.Data)
	}

	waitUntil(t, time.Second, func() bool { return s.Hub().Len() == 1 }, "client registered")
	s.PublishState(deck.State{ProfileName: "Second"})
	if f := readFrame(t, conn); f.Type != "state" || !strings.Contains(string(f.Data), "Second") {
		t.Errorf("broadcast = %s %s", f.Type, f.Data)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pressed) != 1 || d.pressed[0] != 3 {
		t.Errorf("pressed = %v", d.pressed)
	}
}

func TestDispatch_Validation(t *testing.T) {
	s := NewServer(&fakeDeck{}, discard, HubConfig{})
	tests := []struct {
		raw  string
		want string
	}{
		{`not json`, "error"},
		{`{"type":"press","data":{}}`, "error"},
		{`{"type":"press","data":{"index":99}}`, "error"},
		{`{"type":"press","data":{"buttonId":"b1"}}`, "action_result"},
		{`{"type":"go_to_page","data":{"page":1}}`, "ok"},
		{`{"type":"switch_profile","data":{"profile":"x"}}`, "error"},
		{`{"type":"get_state"}`, "state"},
	}
	for _, tt := range tests {
		if got, _ := s.dispatch([]byte(tt.raw)); got != tt.want {
			t.Errorf("dispatch(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestServer_LongPressDoesNotBlockClient(t *testing.T) {
	d := &fakeDeck{state: deck.State{ProfileName: "Default"}, block: make(chan struct{})}
	s := NewServer(d, discard, HubConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Hub().Run(ctx)

	mux := http.NewServeMux()
	s.Register(mux, "/ws")
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	readFrame(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": "press", "data": map[string]any{"index": 0}}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "get_state"}); err != nil {
		t.Fatal(err)
	}
	if f := readFrame(t, conn); f.Type != "state" {
		t.Fatalf("reply while press running = %s %s", f.Type, f.Data)
	}

	close(d.block)
	if f := readFrame(t, conn); f.Type != "action_result" {
		t.Errorf("press reply = %s %s", f.Type, f.Data)
	}
}
