// Package mcp exposes a Tracer as a Model Context Protocol server.
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

	"github.com/irobinett3/traceTM-iansntm/internal/logging"
	"github.com/irobinett3/traceTM-iansntm/internal/presentation/graph"
	"github.com/irobinett3/traceTM-iansntm/internal/sanitize"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MachineList is the structured output of list_machines.
type MachineList struct {
	Machines []string `json:"machines" jsonschema_description:"Names accepted by trace_machine"`
}

// TraceArgs are the arguments of trace_machine.
type TraceArgs struct {
	Machine  string `json:"machine"`
	Input    string `json:"input"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

// Server wraps a Tracer and exposes it as an MCP Server.
type Server struct {
	tracer    ports.Tracer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

type Option func(*Server)

// WithLogger sets the logger used for tool failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(tracer ports.Tracer, version string, opts ...Option) *Server {
	s := &Server{
		tracer:    tracer,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("tmtrace-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the protocol over SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

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
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the Turing machines available for tracing."),
		mcp.WithOutputSchema[MachineList](),
	), mcp.NewStructuredToolHandler(s.handleListMachines))

	s.mcpServer.AddTool(mcp.NewTool("trace_machine",
		mcp.WithDescription("Run an input string on a machine, exploring every branch breadth-first, and report the verdict."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name, as returned by list_machines")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input string; one tape cell per character")),
		mcp.WithNumber("max_depth", mcp.Description("Depth bound (optional, server default when omitted)")),
		mcp.WithOutputSchema[domain.Summary](),
	), mcp.NewStructuredToolHandler(s.handleTrace))

	s.mcpServer.AddTool(mcp.NewTool("get_result",
		mcp.WithDescription("Fetch a stored result, including the per-depth trace."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Result ID returned by trace_machine")),
	), s.handleGetResult)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a machine's transition table as a Mermaid flowchart."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine name")),
	), s.handleGetGraph)
}

func (s *Server) handleListMachines(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (MachineList, error) {
	names, err := s.tracer.Machines(ctx)
	if err != nil {
		return MachineList{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return MachineList{Machines: names}, nil
}

func (s *Server) handleTrace(ctx context.Context, _ mcp.CallToolRequest, args TraceArgs) (domain.Summary, error) {
	if args.Machine == "" {
		return domain.Summary{}, errors.New("machine is required")
	}
	if args.MaxDepth < 0 {
		return domain.Summary{}, errors.New("max_depth must not be negative")
	}

	input, err := sanitize.Input(args.Input)
	if err != nil {
		s.logger.Warn("MCP trace: input rejected", "error", err, "size", len(args.Input))
		return domain.Summary{}, fmt.Errorf("input rejected: %w", err)
	}

	res, err := s.tracer.TraceDepth(ctx, args.Machine, input, args.MaxDepth)
	if err != nil {
		s.logger.Warn("MCP trace failed", "machine", args.Machine, "error", err)
		return domain.Summary{}, fmt.Errorf("trace failed: %w", err)
	}
	return res.Summarize(), nil
}

func (s *Server) handleGetResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.tracer.Result(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get result failed: %v", err)), nil
	}
	jsonBytes, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("machine")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	m, err := s.tracer.Machine(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(m, nil)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: tmtrace://machines
	s.mcpServer.AddResource(mcp.NewResource("tmtrace://machines", "Available machines",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.tracer.Machines(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list machines: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tmtrace://machines",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
