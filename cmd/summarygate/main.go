// summarygate - HTTP gateway that summarizes text with a local Ollama model.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/summarygate/internal/api"
	"github.com/matiasleandrokruk/summarygate/internal/api/mcptool"
	"github.com/matiasleandrokruk/summarygate/internal/domain/summarize"
	"github.com/matiasleandrokruk/summarygate/internal/infra/config"
	"github.com/matiasleandrokruk/summarygate/internal/infra/llm"
	"github.com/matiasleandrokruk/summarygate/internal/infra/logging"
	"github.com/matiasleandrokruk/summarygate/internal/infra/metrics"
	"github.com/matiasleandrokruk/summarygate/internal/server"
	"github.com/matiasleandrokruk/summarygate/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("summarygate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config", "", "Path to YAML config file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err) //nolint:errcheck
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	switch cmd := fs.Arg(0); cmd {
	case "", "serve":
		if err := serve(ctx, *configPath); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err) //nolint:errcheck
			return 1
		}
		return 0
	default:
		fmt.Fprintf(errOut, "error: unknown command %q\n", cmd) //nolint:errcheck
		return 2
	}
}

// serve wires every component and blocks until ctx is canceled.
func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	m := metrics.New()
	client := llm.NewOllamaClient(cfg.Ollama, llm.WithMetrics(m))
	svc := summarize.NewService(client, logger.Named("summarize"), m)

	deps := api.Deps{
		Service:    svc,
		BackendURL: client.BaseURL(),
		Logger:     logger.Named("http"),
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = m.Handler()
	}
	if cfg.MCP.Enabled {
		deps.MCP = mcptool.NewHandler(mcptool.NewServer(svc, version.Version))
	}

	srv := server.NewServer(api.NewRouter(deps), cfg.Server, logger)
	logger.Info("inference backend configured",
		zap.String("base_url", client.BaseURL()),
		zap.String("model", cfg.Ollama.Model),
		zap.Duration("generate_timeout", cfg.Ollama.GenerateTimeout),
		zap.Int("max_concurrent", cfg.Ollama.MaxConcurrent))

	// In-flight requests must survive the signal so Shutdown can drain them.
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(context.WithoutCancel(ctx)) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func printHelp(out io.Writer) {
	helpText := `summarygate - text summarization gateway for a local Ollama model

Usage:
  summarygate [options] [command]

Options:
  --config     Path to YAML config file (env SUMMARYGATE_* overrides it)
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the HTTP server (default)

Endpoints:
  GET  /            liveness
  GET  /health      backend reachability
  POST /summarize/  form field "text"
  GET  /metrics     Prometheus metrics
  /mcp              MCP streamable HTTP (tool "summarize")

Examples:
  summarygate --version
  summarygate --config summarygate.yaml
  SUMMARYGATE_OLLAMA_MODEL=llama3.2:3b summarygate serve`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
