package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/menube"
	"github.com/aretw0/menube/internal/presentation/graph"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine is the navigation surface exposed to agents.
type Engine interface {
	MoveUp() bool
	MoveDown() bool
	BackOut() bool
	Activate(ctx context.Context) (bool, error)
	Restore(path domain.Path) error
	Path() domain.Path
	ActiveSiblings() ([]*domain.Node, error)
	ParentNode() (*domain.Node, error)
	Tree() []*domain.Node
}

// Server wraps a navigation engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	events    *EventLog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. events may be nil, which
// disables the menu_events tool; otherwise it must be registered as a
// publisher on the engine.
func NewServer(engine Engine, events *EventLog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine: engine,
		events: events,
		logger: logger,
		mcpServer: server.NewMCPServer("menube-mcp", strings.TrimSpace(menube.Version),
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for embedding in another transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("menu_state",
		mcp.WithDescription("Show the active menu and the highlighted item."),
		mcp.WithOutputSchema[domain.MenuView](),
	), mcp.NewStructuredToolHandler(s.handleState))

	moves := []struct {
		name, description string
		fn                func() bool
	}{
		{"menu_up", "Highlight the previous item. Does nothing on the first item.", s.engine.MoveUp},
		{"menu_down", "Highlight the next item. Does nothing on the last item.", s.engine.MoveDown},
		{"menu_back", "Leave the current submenu and highlight the item that opened it.", s.engine.BackOut},
	}
	for _, m := range moves {
		s.mcpServer.AddTool(mcp.NewTool(m.name,
			mcp.WithDescription(m.description),
			mcp.WithOutputSchema[domain.MenuView](),
		), mcp.NewStructuredToolHandler(s.moveHandler(m.fn)))
	}

	s.mcpServer.AddTool(mcp.NewTool("menu_activate",
		mcp.WithDescription("Activate the highlighted item: enter a submenu, run a command, "+
			"publish an event or discover options. Command output is reported by menu_events."),
		mcp.WithOutputSchema[domain.MenuView](),
	), mcp.NewStructuredToolHandler(s.handleActivate))

	s.mcpServer.AddTool(mcp.NewTool("menu_restore",
		mcp.WithDescription("Jump to a selection path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("JSON array of item indexes, one per level, e.g. [0,2]")),
		mcp.WithOutputSchema[domain.MenuView](),
	), mcp.NewStructuredToolHandler(s.handleRestore))

	s.mcpServer.AddTool(mcp.NewTool("menu_tree",
		mcp.WithDescription("Get the full menu tree, including a discovered options submenu."),
	), s.handleTree)

	if s.events != nil {
		s.mcpServer.AddTool(mcp.NewTool("menu_events",
			mcp.WithDescription("Return the events published since the previous call, oldest first."),
		), s.handleEvents)
	}
}

func (s *Server) view(moved *bool) (domain.MenuView, error) {
	siblings, err := s.engine.ActiveSiblings()
	if err != nil {
		return domain.MenuView{}, err
	}
	parent, err := s.engine.ParentNode()
	if err != nil {
		return domain.MenuView{}, err
	}
	v := domain.NewMenuView(s.engine.Path(), parent, siblings)
	v.Moved = moved
	return v, nil
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.MenuView, error) {
	return s.view(nil)
}

func (s *Server) moveHandler(fn func() bool) func(context.Context, mcp.CallToolRequest, map[string]any) (domain.MenuView, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.MenuView, error) {
		moved := fn()
		return s.view(&moved)
	}
}

func (s *Server) handleActivate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.MenuView, error) {
	moved, err := s.engine.Activate(ctx)
	if err != nil {
		s.logger.Warn("MCP activate failed", "err", err)
		return domain.MenuView{}, fmt.Errorf("activate failed: %w", err)
	}
	return s.view(&moved)
}

func (s *Server) handleRestore(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.MenuView, error) {
	raw, _ := args["path"].(string)
	var path []int
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		return domain.MenuView{}, fmt.Errorf("path must be a JSON array of integers: %w", err)
	}
	if err := s.engine.Restore(domain.Path(path)); err != nil {
		return domain.MenuView{}, fmt.Errorf("restore failed: %w", err)
	}
	moved := true
	return s.view(&moved)
}

func (s *Server) handleTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.engine.Tree())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.events.Drain())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("menube://tree", "Menu tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Tree())
		if err != nil {
			return nil, fmt.Errorf("failed to encode tree: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "menube://tree",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource("menube://graph", "Menu diagram (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "menube://graph",
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.engine.Tree(), &graph.Overlay{Path: s.engine.Path()}),
			},
		}, nil
	})
}
