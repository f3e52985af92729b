package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seeksphere/seeksphere-go/config"
	"github.com/seeksphere/seeksphere-go/manager"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *seeksphere.Client
	mgr     *manager.Manager

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "seeksphere",
	Short: "Command line client for the SeekSphere search API",
	Long: `seeksphere talks to a SeekSphere deployment: it checks service health,
runs natural-language searches and manages the organization's search tokens
and schema.

Connection settings come from a config file, SEEKSPHERE_* environment
variables or the flags below. Responses are printed as JSON on stdout, logs
go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion records build information for the version command
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = version
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./seeksphere.yaml)")
	flags.String("base-url", "", "SeekSphere API base URL")
	flags.String("api-key", "", "organization id sent as X-Org-Id")
	flags.Duration("timeout", 0, "per-request timeout (e.g. 30s)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
}

// initializeApp loads the configuration and creates the client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)
	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("Loaded configuration")
	}

	client, err = seeksphere.NewClient(cfg.API.ClientConfig(), seeksphere.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create SeekSphere client: %w", err)
	}

	mgr = manager.New(client,
		manager.WithLogger(logger),
		manager.WithRetry(cfg.Retry.Attempts, cfg.Retry.Delay),
	)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
