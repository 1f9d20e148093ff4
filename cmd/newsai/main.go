// Package main implements the newsai command line interface.
// Run without arguments to start the interactive dashboard; the subcommands
// talk to the backend directly and print plain output for scripting.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tranhoangkhuongvn/news-ai/cmd/newsai/dash"
	"github.com/tranhoangkhuongvn/news-ai/internal/api"
	"github.com/tranhoangkhuongvn/news-ai/internal/config"
	"github.com/tranhoangkhuongvn/news-ai/internal/logging"
)

var (
	// Global flags
	verbose    bool
	cfgPath    string
	backendURL string
	timeout    time.Duration

	// Loaded in PersistentPreRunE
	cfg *config.Config
	out *Printer

	// Logger for the non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "newsai",
	Short: "NewsAI - Australian news, aggregated and ranked in your terminal",
	Long: `NewsAI pulls sports, finance, lifestyle and music coverage from the major
Australian outlets, clusters the stories that multiple sources are running,
ranks them, and answers questions about them.

Run without arguments to start the interactive dashboard. The subcommands
talk to the backend directly and print plain output for scripting.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive dashboard
		return dash.RunDashboard(cfg, newClient())
	},
}

func init() {
	// Attached here rather than in the composite literal because the body
	// compares against rootCmd, which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if backendURL != "" {
			cfg.Backend.BaseURL = backendURL
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Backend.Timeout = timeout.String()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := logging.Initialize(config.Dir()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		logging.Boot("newsai %s starting, command=%s backend=%s", cfg.Version, cmd.Name(), cfg.Backend.BaseURL)

		out = NewPrinter(cfg.UI.Color)

		// The dashboard has its own UI; keep zap off its terminal
		if cmd == rootCmd {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Add commands to root
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(similarCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds an API client for the configured backend.
func newClient() *api.Client {
	return api.NewWithConfig(api.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.GetTimeout(),
	})
}

// cmdCtx bounds one backend call with the configured timeout.
func cmdCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.GetTimeout())
}

// signalCtx bounds a long-running call with the given timeout and cancels it
// on SIGINT/SIGTERM.
func signalCtx(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// joinArgs rejoins positional args into the original phrase.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
