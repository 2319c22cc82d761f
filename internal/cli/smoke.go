package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"groundlab/internal/config"
	"groundlab/internal/smoke"
)

// addSmokeCommand adds the end-to-end setup verification command
func (app *App) addSmokeCommand(rootCmd *cobra.Command) {
	smokeCmd := &cobra.Command{
		Use:   "smoke",
		Short: "Verify the agent service setup end to end",
		Long: `Verify configuration, credentials, connectivity, search tool wiring and
agent creation, then probe one live search. The check creates a temporary
test agent and deletes it afterwards; the experiment agent is never touched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runSmoke(cmd.Context())
		},
	}

	rootCmd.AddCommand(smokeCmd)
}

func (app *App) runSmoke(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	checker := smoke.NewChecker(cfg)
	result := checker.Run(ctx)

	app.printer.Println("")
	app.printer.Rule()
	app.printer.Header("SMOKE CHECK SUMMARY")
	app.printer.Rule()
	for _, stage := range result.Stages {
		if stage.Passed {
			app.printer.Pass(stage.Name, stage.Detail)
		} else {
			app.printer.Fail(stage.Name, stage.Detail)
		}
	}
	app.printer.Rule()

	if !result.Passed() {
		app.printer.Failure("Some stages failed. Fix the configuration before running experiments.")
		return fmt.Errorf("smoke check failed")
	}

	app.printer.Success("All stages passed. The service is ready for experiments.")
	return nil
}
