// Package server exposes the inspector as Model Context Protocol tools.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mj1618/element-inspector/internal/inspector"
	"github.com/mj1618/element-inspector/internal/platform"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	Stdin     io.Reader // stdio transport input (default os.Stdin)
	Stdout    io.Writer // stdio transport output (default os.Stdout)
}

const shutdownTimeout = 5 * time.Second

// Server wraps the MCP server with the inspector and an optional live
// automation backend.
type Server struct {
	inspector  *inspector.Inspector
	provider   *platform.Provider
	providerMu sync.Mutex
	logger     *zap.Logger
	mcp        *mcpserver.MCPServer
}

// New creates a server with the inspect and candidates tools registered.
// provider may be nil, in which case every call must carry a snapshot.
func New(ins *inspector.Inspector, provider *platform.Provider, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		inspector: ins,
		provider:  provider,
		logger:    logger,
	}
	s.mcp = mcpserver.NewMCPServer("element-inspector", version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve runs the MCP server with the configured transport until the client
// disconnects or ctx is cancelled. Cancellation is not an error.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	switch cfg.Transport {
	case "stdio", "":
		return s.serveStdio(ctx, cfg)
	case "streamable-http":
		return s.serveHTTP(ctx, cfg.Port)
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) serveStdio(ctx context.Context, cfg Config) error {
	in, out := cfg.Stdin, cfg.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, in, out)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) serveHTTP(ctx context.Context, port int) error {
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
	s.logger.Info("serving MCP over HTTP", zap.Int("port", port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP server: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("inspect",
			mcp.WithDescription("Explain a failed element lookup: find the element on the current screen that the locator most likely meant, with alternative locators, its attributes and the surrounding markup."),
			mcp.WithString("locator", mcp.Required(), mcp.Description(`Failed locator, e.g. "By.id: com.app:id/login" or "By.xpath: //*[@text='Sign in']"`)),
			mcp.WithString("snapshot", mcp.Description("UI hierarchy XML (page source). Omit to read it from the attached Appium session")),
			mcp.WithString("file", mcp.Description("Path to a saved page source, used when snapshot is omitted")),
			mcp.WithString("format", mcp.Description("Result format: yaml (default), json, text")),
		),
		s.handleInspect,
	)

	s.mcp.AddTool(
		mcp.NewTool("candidates",
			mcp.WithDescription("List every element scoring against a locator, best first. Useful to see why a match was chosen."),
			mcp.WithString("locator", mcp.Required(), mcp.Description("Failed locator")),
			mcp.WithString("snapshot", mcp.Description("UI hierarchy XML (page source)")),
			mcp.WithString("file", mcp.Description("Path to a saved page source")),
			mcp.WithNumber("limit", mcp.Description("Max candidates to return (default 10, 0 = all)")),
			mcp.WithString("format", mcp.Description("Result format: yaml (default), json, text")),
		),
		s.handleCandidates,
	)
}
