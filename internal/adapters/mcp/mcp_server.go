// Package mcp exposes the timer controller as MCP (Model Context Protocol)
// tools over stdio, so an assistant can drive the same countdown as the TUI.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

const (
	serverName    = "pomo"
	serverVersion = "1.0.0"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server  *server.MCPServer
	timer   ports.TimerController
	logger  *slog.Logger
	running atomic.Bool

	mu             sync.Mutex
	lastCompletion *completion
}

type completion struct {
	ID   string    `json:"id"`
	Mode string    `json:"mode"`
	At   time.Time `json:"at"`
}

// NewServer creates a new MCP server bound to timer.
func NewServer(timer ports.TimerController, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		timer:  timer,
		logger: logger,
	}

	s.server = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)
	s.registerTools()

	return s
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer",
			mcp.WithDescription("Get the Pomodoro timer state: mode, remaining time, running flag and task note"),
		),
		s.handleGetTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"select_mode",
			mcp.WithDescription("Switch the timer mode. Stops the countdown and restores the mode's full length"),
			mcp.WithString(
				"mode",
				mcp.Required(),
				mcp.Description("Timer mode: work (25m), short_break (5m) or long_break (15m)"),
			),
		),
		s.handleSelectMode,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_timer",
			mcp.WithDescription("Start or resume the countdown"),
		),
		s.handleStart,
	)

	s.server.AddTool(
		mcp.NewTool(
			"pause_timer",
			mcp.WithDescription("Pause the countdown, keeping the remaining time"),
		),
		s.handlePause,
	)

	s.server.AddTool(
		mcp.NewTool(
			"reset_timer",
			mcp.WithDescription("Stop the countdown, restore the full length and clear the task note"),
		),
		s.handleReset,
	)

	s.server.AddTool(
		mcp.NewTool(
			"set_task",
			mcp.WithDescription("Set the task note for the current session"),
			mcp.WithString(
				"text",
				mcp.Required(),
				mcp.Description("Task note text"),
			),
			mcp.WithBoolean(
				"commit",
				mcp.Description("Commit the note as the current task (default: true). When false only the draft is updated"),
			),
		),
		s.handleSetTask,
	)
}

// Start serves MCP requests on stdio until ctx is cancelled or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	s.running.Store(true)
	defer s.running.Store(false)

	go s.trackCompletions(ctx)

	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("mcp server started", "name", serverName, "version", serverVersion)
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// IsRunning returns true while Start is serving.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

// trackCompletions records the most recent natural completion.
func (s *Server) trackCompletions(ctx context.Context) {
	events := s.timer.Subscribe(16)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Type == domain.EventCompleted {
				s.recordCompletion(e)
			}
		}
	}
}

func (s *Server) recordCompletion(e domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCompletion = &completion{ID: e.CompletionID, Mode: string(e.Snapshot.Mode), At: e.At}
}

func (s *Server) handleGetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.snapshotResult(s.timer.Snapshot())
}

func (s *Server) handleSelectMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError("mode is required: " + err.Error()), nil
	}

	mode, err := domain.ParseMode(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.snapshotResult(s.timer.SelectMode(mode))
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.snapshotResult(s.timer.Start())
}

func (s *Server) handlePause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.snapshotResult(s.timer.Pause())
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.snapshotResult(s.timer.Reset())
}

func (s *Server) handleSetTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}

	snap := s.timer.SetDraftText(text)
	if request.GetBool("commit", true) {
		snap = s.timer.CommitTask()
	}
	return s.snapshotResult(snap)
}

// snapshotResult renders a snapshot as the JSON tool result.
func (s *Server) snapshotResult(snap domain.Snapshot) (*mcp.CallToolResult, error) {
	result := map[string]interface{}{
		"mode":              string(snap.Mode),
		"mode_label":        snap.Mode.Label(),
		"seconds_remaining": snap.SecondsRemaining,
		"clock":             snap.Clock(),
		"running":           snap.Running,
		"status":            string(snap.Status()),
		"progress":          snap.Progress(),
		"draft_text":        snap.DraftText,
		"task":              nil,
	}
	if snap.HasTask() {
		result["task"] = snap.CommittedText
	}

	s.mu.Lock()
	if s.lastCompletion != nil {
		result["last_completion"] = *s.lastCompletion
	}
	s.mu.Unlock()

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timer state: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
