package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"groundlab/internal/config"
	"groundlab/internal/history"
)

// addHistoryCommand adds the run-history inspection command
func (app *App) addHistoryCommand(rootCmd *cobra.Command) {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded experiment runs",
		Long: `Show the most recent experiment runs from the history database, newest
first. Runs are recorded when ` + config.EnvHistoryDB + ` points at a SQLite
database file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.showHistory(limit)
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")

	rootCmd.AddCommand(historyCmd)
}

func (app *App) showHistory(limit int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("history is disabled: set %s to a database path", config.EnvHistoryDB)
	}

	store, err := history.New(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		app.printer.Println("No recorded runs.")
		return nil
	}

	for _, run := range runs {
		search := "no search tool"
		if run.SearchTool {
			search = "search tool"
		}
		app.printer.Printf("%s  %s  %s (%s, %s)  %d prompts x %d trials\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.ID,
			run.AgentName,
			run.Model,
			search,
			run.PromptCount,
			run.TrialCount)
	}

	return nil
}
