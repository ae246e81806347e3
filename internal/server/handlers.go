package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/weel/internal/actions"
	"github.com/mj1618/weel/internal/model"
)

// toText serializes v to YAML for an MCP response.
func toText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// resultToTool maps an action result onto a tool result. A failed action
// is reported as a tool error so the agent sees it as one.
func resultToTool(res actions.Result) *mcp.CallToolResult {
	if !res.Success {
		return mcp.NewToolResultError(toText(res))
	}
	return mcp.NewToolResultText(toText(res))
}

func ok(message string) *mcp.CallToolResult {
	return mcp.NewToolResultText(toText(actions.Result{Success: true, Message: message}))
}

func (s *Server) handlePress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	buttonID := request.GetString("button_id", "")
	_, hasIndex := args["index"]

	var (
		res actions.Result
		err error
	)
	switch {
	case buttonID != "":
		res, err = s.deck.PressID(ctx, buttonID)
	case hasIndex:
		res, err = s.deck.Press(ctx, request.GetInt("index", -1))
	default:
		return mcp.NewToolResultError("index or button_id is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return resultToTool(res), nil
}

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	action, err := model.UnmarshalAction([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	buttonID := request.GetString("button_id", "mcp")
	s.logger.Debug("mcp execute", "type", action.Kind(), "button", buttonID)
	return resultToTool(s.deck.Run(ctx, action, buttonID)), nil
}

func (s *Server) handleGetState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(s.deck.State())), nil
}

type profileSummary struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Grid     model.GridSize `yaml:"grid"`
	Pages    int            `yaml:"pages"`
	Current  bool           `yaml:"current,omitempty"`
	AppAware bool           `yaml:"app_aware,omitempty"`
}

func (s *Server) handleListProfiles(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current := s.deck.State().ProfileID
	var out []profileSummary
	for _, p := range s.deck.Profiles() {
		out = append(out, profileSummary{
			ID:       p.ID,
			Name:     p.Name,
			Grid:     p.GridSize,
			Pages:    p.PageCount(),
			Current:  p.ID == current,
			AppAware: p.AppAwareSettings != nil && p.AppAwareSettings.Enabled,
		})
	}
	return mcp.NewToolResultText(toText(out)), nil
}

func (s *Server) handleSwitchProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("profile")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.deck.SwitchProfile(ctx, ref); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return ok("Switched to profile: " + s.deck.State().ProfileName), nil
}

func (s *Server) handleCreateProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.deck.CreateProfile(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(profileSummary{ID: p.ID, Name: p.Name, Grid: p.GridSize, Pages: p.PageCount()})), nil
}

func (s *Server) handleGoToPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.deck.GoToPage(ctx, page); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return ok(fmt.Sprintf("Switched to page %d", page)), nil
}

func (s *Server) handleSetActiveApp(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	app, err := request.RequireString("app")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.deck.SetActiveApp(app)
	st := s.deck.State()
	return ok(fmt.Sprintf("Active app %s, page %d", app, st.Page)), nil
}

func (s *Server) handleMapApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	app, err := request.RequireString("app")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := request.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.deck.MapApp(ctx, app, page); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.GetBool("enable", false) {
		if err := s.deck.SetAppAware(ctx, true); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if page <= 0 {
		return ok("Removed mapping for " + app), nil
	}
	return ok(fmt.Sprintf("Mapped %s to page %d", app, page)), nil
}

func (s *Server) handleStopAll(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.deck.StopAll()
	return ok("Stopped all timers and audio"), nil
}
