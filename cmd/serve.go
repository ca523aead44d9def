package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/element-inspector/internal/observability"
	"github.com/mj1618/element-inspector/internal/platform"
	"github.com/mj1618/element-inspector/internal/server"
	"github.com/mj1618/element-inspector/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the inspector",
	Long: `Start a Model Context Protocol (MCP) server with the tools "inspect" and
"candidates". Each call passes a page source inline or as a file; with
--appium, calls without one read the attached Appium session.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  element-inspector serve
  element-inspector serve --transport streamable-http --port 8080
  element-inspector serve --appium --metrics-addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Bool("appium", false, "Fall back to the Appium session when a call has no page source")
	serveCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	useAppium, _ := cmd.Flags().GetBool("appium")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	cfg := currentConfig()
	logger := observability.GetLogger()

	var provider *platform.Provider
	if useAppium {
		p, err := newProvider(cfg)
		if err != nil {
			return err
		}
		provider = p
	}

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if metricsAddr != "" {
		hs := newMetricsServer(metricsAddr)
		g.Go(func() error {
			logger.Info("serving metrics", zap.String("addr", metricsAddr))
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return hs.Shutdown(shutdownCtx)
		})
	}

	srv := server.New(newInspector(cfg), provider, logger, version.Version)
	g.Go(func() error {
		defer cancel()
		err := srv.Serve(gctx, server.Config{
			Transport: transport,
			Port:      port,
			Stdin:     cmd.InOrStdin(),
			Stdout:    cmd.OutOrStdout(),
		})
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
