package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/terrain-contour-mcp/internal/config"
	"github.com/ironsheep/terrain-contour-mcp/internal/logging"
	"github.com/ironsheep/terrain-contour-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terrain-contour-mcp: %v\n", err)
		os.Exit(2)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg      config.Config
	logLevel string
	log      zerolog.Logger
}

func newRootCmd(cfg config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:   "terrain-contour-mcp",
		Short: "MCP server and CLI that turns heightmaps into terrain outline paths",
		Long: `terrain-contour-mcp classifies a heightmap by its red channel into filled
terrain and holes, and traces both into SVG-style outline paths.

Run without a subcommand it serves MCP over stdin/stdout; configure it in your
MCP client. Logs always go to stderr.

Environment variables:
  TERRAIN_MCP_LOG_LEVEL, TERRAIN_MCP_FILL_THRESHOLD, TERRAIN_MCP_HOLE_THRESHOLD,
  TERRAIN_MCP_THRESHOLD_POLICY, TERRAIN_MCP_HOLE_MODE, TERRAIN_MCP_STRIDE,
  TERRAIN_MCP_SAMPLE_SOURCE`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = logging.NewConsole(logging.ParseLevel(a.logLevel))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}
	root.SetVersionTemplate(versionText())
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", cfg.LogLevel, "log level: trace, debug, info, warn, error")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "serve MCP over stdin/stdout (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve()
			},
		},
		newVectorizeCmd(a),
		newGenerateCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprint(cmd.OutOrStdout(), versionText())
			},
		},
	)

	return root
}

func versionText() string {
	return fmt.Sprintf("terrain-contour-mcp %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit)
}

func (a *app) serve() error {
	a.log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("starting terrain-contour-mcp")

	srv := server.New(a.cfg, a.log, server.WithVersion(Version))
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
