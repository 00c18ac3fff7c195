// Command overleaf-mcp serves MCP tools for inspecting and editing the
// LaTeX sources of an Overleaf project over its git bridge.
//
// Usage:
//
//	overleaf-mcp                      # stdio transport (for MCP clients)
//	overleaf-mcp -http :8086          # streamable HTTP transport
//	overleaf-mcp -log-level debug
//
// Configuration comes from the environment (a .env file is honoured):
//
//	OVERLEAF_GIT_URL   https://git.overleaf.com/<project-id> (empty = local mode)
//	OVERLEAF_TOKEN     Overleaf git authentication token
//	OVERLEAF_EMAIL     committer email
//	DATA_DIR           checkout directory (default data/project)
//	AUDIT_DB           edit log path (default db/audit.db, empty disables)
//	HIERARCHY_FILE     optional YAML sectioning hierarchy
//	TITLE_MATCH        exact | loose (default exact)
//	STRICT_MATCH       error on ambiguous titles instead of first match
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/Aryan1718/OverLeaf-MCP/editor"
	"github.com/Aryan1718/OverLeaf-MCP/latex"
	"github.com/Aryan1718/OverLeaf-MCP/project"
)

const serverVersion = "1.0.0"

type envConfig struct {
	GitURL        string `env:"OVERLEAF_GIT_URL"`
	Token         string `env:"OVERLEAF_TOKEN"`
	Email         string `env:"OVERLEAF_EMAIL"`
	DataDir       string `env:"DATA_DIR" envDefault:"data/project"`
	AuditDB       string `env:"AUDIT_DB" envDefault:"db/audit.db"`
	HierarchyFile string `env:"HIERARCHY_FILE"`
	HTTPAddr      string `env:"MCP_HTTP_ADDR"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	TitleMatch    string `env:"TITLE_MATCH" envDefault:"exact"`
	StrictMatch   bool   `env:"STRICT_MATCH"`
}

func main() {
	httpAddr := flag.String("http", "", "serve MCP over streamable HTTP on this address instead of stdio")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flag.Parse()

	// Best-effort .env; absence is fine.
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		ec.HTTPAddr = *httpAddr
	}
	if *logLevel != "" {
		ec.LogLevel = *logLevel
	}

	var level slog.Level
	switch ec.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// stdout belongs to the stdio transport; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, ec); err != nil {
		logger.Error("overleaf-mcp: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, ec envConfig) error {
	e, err := editor.New(editor.Config{
		Project: project.Config{
			RemoteURL: ec.GitURL,
			Token:     ec.Token,
			Email:     ec.Email,
			Dir:       ec.DataDir,
		},
		HierarchyPath: ec.HierarchyFile,
		TitleMatch:    latex.TitleMatch(ec.TitleMatch),
		Strict:        ec.StrictMatch,
		AuditDB:       ec.AuditDB,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer e.Close()

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "overleaf-mcp",
		Version: serverVersion,
	}, nil)
	e.RegisterMCP(srv)

	mode := "local"
	if ec.GitURL != "" {
		mode = "overleaf"
	}

	if ec.HTTPAddr != "" {
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil)

		r := chi.NewRouter()
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Handle("/mcp", handler)
		r.Handle("/mcp/*", handler)

		httpSrv := &http.Server{Addr: ec.HTTPAddr, Handler: r}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx)
		}()

		logger.Info("overleaf-mcp: HTTP listening", "addr", ec.HTTPAddr, "mode", mode)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	logger.Info("overleaf-mcp: stdio transport", "mode", mode, "dir", ec.DataDir)
	return srv.Run(ctx, &mcp.StdioTransport{})
}
