// Package server exposes the deck as Model Context Protocol tools so an
// agent can press buttons and run actions without the hardware pad.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/weel/internal/actions"
	"github.com/mj1618/weel/internal/deck"
	"github.com/mj1618/weel/internal/model"
	"github.com/mj1618/weel/internal/version"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
)

// Deck is the part of *deck.Deck the tools drive.
type Deck interface {
	State() deck.State
	Profiles() []model.Profile
	Press(ctx context.Context, index int) (actions.Result, error)
	PressID(ctx context.Context, buttonID string) (actions.Result, error)
	Run(ctx context.Context, action model.ButtonAction, buttonID string) actions.Result
	SwitchProfile(ctx context.Context, ref string) error
	CreateProfile(ctx context.Context, name string) (model.Profile, error)
	GoToPage(ctx context.Context, n int) error
	SetActiveApp(app string)
	SetAppAware(ctx context.Context, enabled bool) error
	MapApp(ctx context.Context, app string, page int) error
	StopAll()
}

// Server wraps an MCP server bound to one deck.
type Server struct {
	deck   Deck
	logger *slog.Logger
	mcp    *mcpserver.MCPServer
}

// New creates the MCP server and registers every tool.
func New(d Deck, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		deck:   d,
		logger: logger,
		mcp:    mcpserver.NewMCPServer("weel", version.Version),
	}
	s.registerTools()
	return s
}

// Serve runs the chosen transport until ctx is canceled.
func (s *Server) Serve(ctx context.Context, transport string, port int) error {
	switch transport {
	case TransportStdio:
		s.logger.Info("mcp server on stdio")
		err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp stdio: %w", err)
		}
		return nil
	case TransportHTTP:
		addr := fmt.Sprintf(":%d", port)
		httpSrv := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() { errCh <- httpSrv.Start(addr) }()
		s.logger.Info("mcp server listening", "addr", addr)

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("mcp http: %w", err)
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}

func (s *Server) registerTools() {
	// press_button
	s.mcp.AddTool(
		mcp.NewTool("press_button",
			mcp.WithDescription("Press a button on the current page, by slot index or button id"),
			mcp.WithNumber("index", mcp.Description("Zero-based slot index, row-major")),
			mcp.WithString("button_id", mcp.Description("Button id (takes precedence over index)")),
		),
		s.handlePress,
	)

	// execute_action
	s.mcp.AddTool(
		mcp.NewTool("execute_action",
			mcp.WithDescription("Run an action that is not bound to a button. The action is a JSON object with a type field, e.g. {\"type\":\"website\",\"value\":\"example.com\"}"),
			mcp.WithString("action", mcp.Description("Action as JSON"), mcp.Required()),
			mcp.WithString("button_id", mcp.Description("Attribute the action to this button (for timers and switches)")),
		),
		s.handleExecute,
	)

	// get_state
	s.mcp.AddTool(
		mcp.NewTool("get_state",
			mcp.WithDescription("Show the current profile, page and buttons"),
		),
		s.handleGetState,
	)

	// list_profiles
	s.mcp.AddTool(
		mcp.NewTool("list_profiles",
			mcp.WithDescription("List profiles with their grid size and page count"),
		),
		s.handleListProfiles,
	)

	// switch_profile
	s.mcp.AddTool(
		mcp.NewTool("switch_profile",
			mcp.WithDescription("Make a profile active. Running timers and audio are stopped."),
			mcp.WithString("profile", mcp.Description("Profile id or name"), mcp.Required()),
		),
		s.handleSwitchProfile,
	)

	// create_profile
	s.mcp.AddTool(
		mcp.NewTool("create_profile",
			mcp.WithDescription("Create an empty profile with the current grid size"),
			mcp.WithString("name", mcp.Description("Profile name"), mcp.Required()),
		),
		s.handleCreateProfile,
	)

	// go_to_page
	s.mcp.AddTool(
		mcp.NewTool("go_to_page",
			mcp.WithDescription("Show a page of the current profile"),
			mcp.WithNumber("page", mcp.Description("One-based page number"), mcp.Required()),
		),
		s.handleGoToPage,
	)

	// set_active_app
	s.mcp.AddTool(
		mcp.NewTool("set_active_app",
			mcp.WithDescription("Report the foreground application; may trigger an app-aware page switch"),
			mcp.WithString("app", mcp.Description("Application name"), mcp.Required()),
		),
		s.handleSetActiveApp,
	)

	// map_app
	s.mcp.AddTool(
		mcp.NewTool("map_app",
			mcp.WithDescription("Map an application to a page of the current profile"),
			mcp.WithString("app", mcp.Description("Application name"), mcp.Required()),
			mcp.WithNumber("page", mcp.Description("Page number; 0 removes the mapping"), mcp.Required()),
			mcp.WithBoolean("enable", mcp.Description("Also turn app-aware switching on")),
		),
		s.handleMapApp,
	)

	// stop_all
	s.mcp.AddTool(
		mcp.NewTool("stop_all",
			mcp.WithDescription("Stop every running timer and audio clip"),
		),
		s.handleStopAll,
	)
}
