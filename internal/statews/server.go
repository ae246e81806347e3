package statews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mj1618/weel/internal/actions"
	"github.com/mj1618/weel/internal/deck"
)

// Deck is the part of *deck.Deck the server drives.
type Deck interface {
	State() deck.State
	Subscribe(fn func(deck.State)) (unsubscribe func())
	Press(ctx context.Context, index int) (actions.Result, error)
	PressID(ctx context.Context, buttonID string) (actions.Result, error)
	GoToPage(ctx context.Context, n int) error
	SwitchProfile(ctx context.Context, ref string) error
}

type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type command struct {
	Index    *int   `json:"index"`
	ButtonID string `json:"buttonId"`
	Page     int    `json:"page"`
	Profile  string `json:"profile"`
}

// Server owns the hub and the HTTP handler.
type Server struct {
	logger   *slog.Logger
	hub      *Hub
	deck     Deck
	upgrader websocket.Upgrader
}

func NewServer(d Deck, logger *slog.Logger, cfg HubConfig) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger: logger,
		hub:    NewHub(logger, cfg),
		deck:   d,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Register registers the websocket handler on mux.
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleStateWS)
}

// Run serves path on addr until ctx is canceled. Deck changes are
// broadcast to every client while it runs.
func (s *Server) Run(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	s.Register(mux, path)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	unsubscribe := s.deck.Subscribe(s.PublishState)
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("state websocket listening", "addr", addr, "path", path)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("state websocket: %w", err)
	}
}

// PublishState broadcasts a "state" frame to every client.
func (s *Server) PublishState(st deck.State) {
	msg, err := encode("state", st)
	if err != nil {
		s.logger.Warn("ws marshal failed", "type", "state", "error", err)
		return
	}
	s.hub.BroadcastBytes(msg)
}

func encode(typ string, data any) ([]byte, error) {
	now := time.Now().UTC()
	return json.Marshal(envelope{Type: typ, Ts: &now, Data: data})
}

func (s *Server) handleStateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	client := NewClient(s.hub, conn, r.RemoteAddr, s.logger)
	s.hub.register <- client

	// The pumps must outlive the request; net/http cancels r.Context()
	// when this handler returns.
	go client.writePump()
	go client.readPump(s.handleCommand)

	if msg, err := encode("state_init", s.deck.State()); err == nil && !client.trySend(msg) {
		s.hub.unregister <- client
	}
}

// handleCommand runs one inbound frame and replies to the sender only.
// Presses run on their own goroutine so a long action does not stall the
// client's read loop.
func (s *Server) handleCommand(c *Client, raw []byte) {
	var in inbound
	if json.Unmarshal(raw, &in) == nil && in.Type == "press" {
		go s.reply(c, raw)
		return
	}
	s.reply(c, raw)
}

func (s *Server) reply(c *Client, raw []byte) {
	typ, data := s.dispatch(raw)
	msg, err := encode(typ, data)
	if err != nil {
		s.logger.Warn("ws marshal failed", "type", typ, "error", err)
		return
	}
	if !c.trySend(msg) && c.hub != nil {
		c.hub.unregister <- c
	}
}

type errorData struct {
	Message string `json:"message"`
}

func (s *Server) dispatch(raw []byte) (string, any) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return "error", errorData{"invalid message: " + err.Error()}
	}
	var cmd command
	if len(in.Data) > 0 {
		if err := json.Unmarshal(in.Data, &cmd); err != nil {
			return "error", errorData{"invalid data: " + err.Error()}
		}
	}

	ctx := context.Background()
	switch in.Type {
	case "press":
		var (
			res actions.Result
			err error
		)
		switch {
		case cmd.ButtonID != "":
			res, err = s.deck.PressID(ctx, cmd.ButtonID)
		case cmd.Index != nil:
			res, err = s.deck.Press(ctx, *cmd.Index)
		default:
			return "error", errorData{"press needs index or buttonId"}
		}
		if err != nil {
			return "error", errorData{err.Error()}
		}
		return "action_result", res
	case "go_to_page":
		if err := s.deck.GoToPage(ctx, cmd.Page); err != nil {
			return "error", errorData{err.Error()}
		}
		return "ok", nil
	case "switch_profile":
		if err := s.deck.SwitchProfile(ctx, cmd.Profile); err != nil {
			return "error", errorData{err.Error()}
		}
		return "ok", nil
	case "get_state":
		return "state", s.deck.State()
	default:
		return "error", errorData{fmt.Sprintf("unknown message type %q", in.Type)}
	}
}
