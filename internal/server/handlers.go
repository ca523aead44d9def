package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/mj1618/element-inspector/internal/inspector"
	"github.com/mj1618/element-inspector/internal/output"
	"github.com/mj1618/element-inspector/internal/platform"
)

const defaultCandidateLimit = 10

var errNoSource = errors.New("no snapshot given and no Appium session attached")

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	descriptor := stringParam(params, "locator", "")
	if descriptor == "" {
		return mcp.NewToolResultError("locator is required"), nil
	}
	format, err := output.ParseFormat(stringParam(params, "format", string(output.FormatYAML)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	src, err := s.source(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.providerMu.Lock()
	report, err := s.inspector.Explain(ctx, src, descriptor)
	s.providerMu.Unlock()

	if errors.Is(err, inspector.ErrDisabled) {
		return mcp.NewToolResultText("skipped: inspector is disabled"), nil
	}
	if err != nil {
		s.logger.Debug("inspect failed", zap.String("locator", descriptor), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("skipped: %v", err)), nil
	}
	return render(report, format)
}

func (s *Server) handleCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	descriptor := stringParam(params, "locator", "")
	if descriptor == "" {
		return mcp.NewToolResultError("locator is required"), nil
	}
	format, err := output.ParseFormat(stringParam(params, "format", string(output.FormatYAML)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	src, err := s.source(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := intParam(params, "limit", defaultCandidateLimit)

	s.providerMu.Lock()
	ranking, err := s.inspector.Rank(ctx, src, descriptor, limit)
	s.providerMu.Unlock()
	if err != nil {
		s.logger.Debug("candidates failed", zap.String("locator", descriptor), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return render(ranking, format)
}

// source picks the snapshot for a call: inline markup, then a file, then the
// live session.
func (s *Server) source(params map[string]interface{}) (platform.Source, error) {
	if markup := stringParam(params, "snapshot", ""); markup != "" {
		return platform.StaticSource(markup), nil
	}
	if path := stringParam(params, "file", ""); path != "" {
		return platform.FileSource(path), nil
	}
	if s.provider != nil && s.provider.Source != nil {
		return s.provider.Source, nil
	}
	return nil, errNoSource
}

func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// intParam accepts JSON numbers, which arrive as float64.
func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func render(v interface{}, format output.Format) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := output.Write(&buf, v, output.Options{Format: format}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render result: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
