package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/issuegantt/internal/config"
	"github.com/existflow/issuegantt/internal/logger"
)

var (
	configPath string
	logLevel   string
	logFile    string
	logConsole bool

	// cfg is loaded once per invocation by the root pre-run
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "issuegantt",
	Short: "issuegantt - GitHub issues on a timeline",
	Long: `issuegantt mirrors the issues of one GitHub repository into a local
store, reads scheduling lines such as "Start Date:" from issue bodies, and
serves the result to a Gantt chart.

Run 'issuegantt' without arguments to browse the schedule in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// Override with CLI flags if provided
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			loaded.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			loaded.LogConsole = logConsole
		}
		cfg = loaded

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("issuegantt started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: runTUI,

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("issuegantt exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.issuegantt/config.yaml)")

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(relabelCmd)
	rootCmd.AddCommand(configCmd)
}
