// Sentinel MCP server - simulated plant inventory over JSON-RPC on stdio
//
// The server answers MCP tools/list and tools/call requests, one JSON object
// per line, with a freshly generated inventory of workers, storage bins and
// transporters on every query.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sabbour/sentinel-mcp-go/internal/catalog"
	"github.com/sabbour/sentinel-mcp-go/internal/config"
	"github.com/sabbour/sentinel-mcp-go/internal/mcp"
	"github.com/sabbour/sentinel-mcp-go/internal/query"
	"github.com/sabbour/sentinel-mcp-go/internal/stdio"
)

// Build-time variables (set by ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	CommitSHA = "unknown"
)

type serveFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	seed       uint64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &serveFlags{}

	root := &cobra.Command{
		Use:          "sentinel-mcp",
		Short:        "Sentinel resource inventory MCP server over stdio",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve JSON-RPC requests on stdin/stdout until stdin closes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	for _, c := range []*cobra.Command{root, serveCmd} {
		c.Flags().StringVar(&flags.configPath, "config", "", "path to YAML config file")
		c.Flags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
		c.Flags().StringVar(&flags.logFormat, "log-format", "", "log format (text, json)")
		c.Flags().Uint64Var(&flags.seed, "seed", 0, "seed for status generation (0 = random)")
	}

	var validatePath string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(validatePath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", validatePath)
			return nil
		},
	}
	validateCmd.Flags().StringVar(&validatePath, "config", "sentinel-mcp.yaml", "path to config file")

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool descriptors as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := mcp.NewDispatcher(mcp.Options{})
			mcp.RegisterInventoryTools(d, query.NewEngine(catalog.NewGenerator(nil)), config.Default().Server.Version)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"tools": d.Tools()})
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sentinel MCP\n")
			fmt.Fprintf(out, "Version: %s\n", Version)
			fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
			fmt.Fprintf(out, "Commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	root.AddCommand(serveCmd, validateCmd, toolsCmd, versionCmd)
	return root
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
	if cmd.Flags().Changed("seed") {
		cfg.Random.Seed = flags.seed
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging)
	if err != nil {
		return err
	}
	logger = logger.With("session_id", uuid.NewString())

	gen := catalog.NewGenerator(nil)
	if cfg.Random.Seed != 0 {
		gen = catalog.NewSeededGenerator(cfg.Random.Seed)
	}

	dispatcher := mcp.NewDispatcher(mcp.Options{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
		Logger:  logger,
	})
	mcp.RegisterInventoryTools(dispatcher, query.NewEngine(gen), cfg.Server.Version)

	logger.Info("serving on stdio", "version", cfg.Server.Version, "seeded", cfg.Random.Seed != 0)
	server := stdio.NewServer(dispatcher, stdio.WithLogger(logger))
	if err := server.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		logger.Error("stdio loop failed", "error", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}

// newLogger builds the side-channel logger. It never writes to stdout.
func newLogger(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
