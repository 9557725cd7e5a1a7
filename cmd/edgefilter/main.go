package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/edge-filter/internal/config"
	"github.com/ironsheep/edge-filter/internal/imaging"
	"github.com/ironsheep/edge-filter/internal/logger"
	"github.com/ironsheep/edge-filter/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app carries state shared by all subcommands.
type app struct {
	cfg config.Config
	log logger.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "edgefilter: %v\n", err)
		os.Exit(2)
	}

	if err := newRootCmd(&app{cfg: cfg}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "edgefilter",
		Short: "Grayscale + Canny edge detection for images and raw BGR buffers",
		Long: `edgefilter converts a color image to grayscale and runs Canny edge
detection on it, producing a black/white edge map (255 = edge).

Environment variables (overridden by flags):
  EDGEFILTER_LOW, EDGEFILTER_HIGH   hysteresis thresholds (default 100, 200)
  EDGEFILTER_L2                     use the L2 gradient magnitude
  EDGEFILTER_BLUR                   Gaussian pre-smoothing radius
  EDGEFILTER_BACKEND                native or opencv
  EDGEFILTER_MAX_DIM                downscale large inputs
  EDGEFILTER_LOG_LEVEL              debug, info, warn, error`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.log == nil {
				a.log = logger.NewConsoleLogger(cmd.ErrOrStderr(), logger.ParseLevel(a.cfg.LogLevel))
			}
			return a.cfg.Validate()
		},
	}

	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")
	a.cfg.BindFilterFlags(root.PersistentFlags())

	root.AddCommand(
		newApplyCmd(a),
		newRawCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "edgefilter %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  OpenCV backend: %v\n", imaging.OpenCVAvailable)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the edge filter as an MCP server. Requests are read from stdin and
responses written to stdout, one JSON-RPC message per line. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server.Version = Version
			a.log.Info("main", "starting MCP server", map[string]interface{}{
				"version": Version,
				"commit":  GitCommit,
				"backend": a.cfg.Backend,
			})
			srv := server.New(a.cfg, a.log)
			if err := srv.Run(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				a.log.Error("main", err, nil)
				return err
			}
			return nil
		},
	}
	a.cfg.BindOutputFlags(cmd.Flags())
	return cmd
}
