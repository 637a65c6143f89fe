// Command sadhana is a terminal screen for logging daily spiritual and
// health practices.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/sadhana/internal/app"
	"github.com/nhle/sadhana/internal/credential"
	"github.com/nhle/sadhana/internal/logging"
	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
	"github.com/nhle/sadhana/internal/theme"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Root flags
	startDate string

	cfg    *model.AppConfig
	logger *zap.Logger
)

// rootCmd starts the log screen.
var rootCmd = &cobra.Command{
	Use:   "sadhana",
	Short: "Log your daily sadhana",
	Long: `sadhana opens a one-screen log of daily practices: mantra japa, stotra
recitations, exercise and diet. Pick a date on the calendar strip, tick the
boxes and submit. Records are stored per date.

Run without arguments to open today's log.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = model.DefaultConfigPath()
		}
		var err error
		cfg, err = model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Args: cobra.NoArgs,
	RunE: runScreen,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/sadhana/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&startDate, "date", "d", "", "Open this date (YYYY-MM-DD) instead of today")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(initCmd)
}

// openStore opens the configured backend behind the logging decorator.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store, credential.Lookup)
	if err != nil {
		return nil, err
	}
	return store.WithLogging(s, logger), nil
}

func runScreen(cmd *cobra.Command, _ []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("sadhana needs a terminal; use `sadhana show` for plain output")
	}

	today := model.Today()
	start := today
	if startDate != "" {
		day, err := model.ParseDay(startDate)
		if err != nil {
			return err
		}
		start = day
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	theme.Dark = lipgloss.HasDarkBackground()
	logger.Info("starting", zap.String("date", start.String()), zap.String("backend", cfg.Store.Backend))

	m := app.New(s, app.Options{
		Today:     today,
		StartDate: start,
		WeekStart: cfg.Display.FirstWeekday(),
		Timeout:   cfg.Store.Timeout(),
		Logger:    logger,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running screen: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
