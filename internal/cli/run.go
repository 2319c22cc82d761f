package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"groundlab/internal/agentapi"
	"groundlab/internal/config"
	"groundlab/internal/experiment"
	"groundlab/internal/history"
	"groundlab/internal/logger"
	"groundlab/internal/prompts"
	"groundlab/internal/report"
)

// addRunCommand adds the main experiment command
func (app *App) addRunCommand(rootCmd *cobra.Command) {
	var promptFile string
	var trials int

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the grounding latency experiment",
		Long: `Run the latency experiment against the configured agent service.

Without flags every prompt source in the prompts directory is loaded:
prompts.csv contributes prompts with recorded baselines, questions.md
contributes bullet-list prompts. With --prompt-file a single source is used
instead; a .md file is read as one long prompt, anything else as a tabular
baseline file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runExperiment(cmd.Context(), promptFile, trials)
		},
	}

	runCmd.Flags().StringVarP(&promptFile, "prompt-file", "p", "", "Run a single prompt source instead of the prompts directory")
	runCmd.Flags().IntVarP(&trials, "trials", "t", 1, "Trials per prompt")

	rootCmd.AddCommand(runCmd)
}

func (app *App) runExperiment(ctx context.Context, promptFile string, trials int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	records, err := loadRecords(cfg, promptFile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no prompts to run: check %s", cfg.PromptsDir)
	}

	options, err := cfg.ClientOptions()
	if err != nil {
		return err
	}
	api := agentapi.NewClient(options...)

	session := &agentapi.Session{
		API:          api,
		Name:         cfg.AgentName,
		Model:        cfg.Model,
		ConnectionID: cfg.SearchConnectionID,
	}
	agent, err := session.Prepare(ctx)
	if err != nil {
		return err
	}

	logger.Info("Starting experiment",
		"agent", agent.ID,
		"search_tool", agent.HasSearchTool(),
		"prompts", len(records),
		"trials", trials)

	runner := &experiment.Runner{
		API:          api,
		Agent:        agent,
		PollInterval: cfg.PollInterval,
		RunTimeout:   cfg.RunTimeout,
	}
	results := runner.RunAll(ctx, records, trials)

	// A failed report write is surfaced in the exit status, but it never
	// preempts the summary or the history record: the trials already ran.
	writer := &report.Writer{Dir: cfg.ResultsDir}
	summaryPath, transcriptPath, writeErr := writer.Write(results)
	if writeErr != nil {
		logger.Error("Failed to write reports", "error", writeErr)
	}

	summary := experiment.Summarize(results)
	summary.Log()

	app.recordHistory(cfg, agent, len(records), trials, results)

	if writeErr != nil {
		return fmt.Errorf("run finished but reports could not be written: %w", writeErr)
	}

	app.printer.Println("")
	app.printer.Emphasis("Results:    " + summaryPath)
	app.printer.Emphasis("Transcript: " + transcriptPath)
	return nil
}

// loadRecords picks the prompt source: the whole prompts directory by
// default, or a single file when one was given.
func loadRecords(cfg *config.Config, promptFile string) ([]prompts.Record, error) {
	if promptFile == "" {
		return prompts.NewLoader(cfg.PromptsDir).LoadAll(), nil
	}

	if strings.HasSuffix(promptFile, ".md") {
		record, err := prompts.ReadLongPrompt(promptFile)
		if err != nil {
			return nil, err
		}
		return []prompts.Record{record}, nil
	}

	return prompts.ReadCSVFile(promptFile)
}

// recordHistory persists the run when a history database is configured. A
// history failure is only a warning: the reports on disk are the primary
// output and they are already written by the time this runs.
func (app *App) recordHistory(cfg *config.Config, agent agentapi.Agent, promptCount, trials int, results []experiment.Result) {
	if cfg.HistoryDB == "" {
		return
	}

	store, err := history.New(cfg.HistoryDB)
	if err != nil {
		logger.Warn("History not recorded", "db", cfg.HistoryDB, "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	runID, err := store.RecordRun(agent, promptCount, trials, results)
	if err != nil {
		logger.Warn("History not recorded", "db", cfg.HistoryDB, "error", err)
		return
	}
	logger.Info("Run recorded", "run_id", runID, "db", cfg.HistoryDB)
}
