// Package cli provides command-line interface setup for groundlab.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"groundlab/internal/logger"
	"groundlab/internal/output"
)

// App represents the groundlab CLI application
type App struct {
	logLevel string
	logFile  string
	printer  *output.Printer
}

// NewApp creates a new groundlab CLI application
func NewApp() *App {
	return &App{
		printer: output.NewPrinter(),
	}
}

// CreateRootCommand creates and configures the root command
func (app *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "groundlab",
		Short: "Latency experiments for search-grounded agents",
		Long: `groundlab measures how a cloud-hosted conversational agent performs when it
is grounded with real-time web search. It runs prompt sets against a live
agent, times every run, classifies responses for grounding limitations and
writes CSV summaries plus full transcripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.Configure(viper.GetString("log-level"), viper.GetString("log-file"))
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&app.logFile, "log-file", "", "Write logs to file instead of stderr")

	// Bind flags to viper so GROUNDLAB_LOG_LEVEL and GROUNDLAB_LOG_FILE work too
	viper.SetEnvPrefix("GROUNDLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}

	// Add all subcommands
	app.addRunCommand(rootCmd)
	app.addSmokeCommand(rootCmd)
	app.addPromptsCommand(rootCmd)
	app.addHistoryCommand(rootCmd)
	app.addVersionCommand(rootCmd)

	return rootCmd
}
