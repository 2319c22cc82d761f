package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"groundlab/internal/config"
	"groundlab/internal/prompts"
)

// addPromptsCommand adds the prompt-set inspection command
func (app *App) addPromptsCommand(rootCmd *cobra.Command) {
	var preview string

	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "List the available prompt sets",
		Long: `List the markdown prompt sets in the prompts directory together with how
many prompts each one parses into. With --preview the named markdown file is
rendered to the terminal, so what the experiment will actually ask is easy
to review before a run.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if preview != "" {
				return app.previewPromptFile(preview)
			}
			return app.listPromptSets()
		},
	}

	promptsCmd.Flags().StringVar(&preview, "preview", "", "Render one markdown prompt file")

	rootCmd.AddCommand(promptsCmd)
}

func (app *App) listPromptSets() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	loader := prompts.NewLoader(cfg.PromptsDir)
	info := loader.SetInfo()
	if info.TotalSets == 0 {
		app.printer.Printf("No prompt sets found in %s\n", cfg.PromptsDir)
		return nil
	}

	names := make([]string, 0, len(info.Sets))
	for name := range info.Sets {
		names = append(names, name)
	}
	sort.Strings(names)

	app.printer.Printf("Prompt sets in %s:\n\n", cfg.PromptsDir)
	for _, name := range names {
		app.printer.Printf("  %-24s %d prompts\n", name, info.Sets[name].Count)
	}
	app.printer.Printf("\n%d sets, %d prompts in total\n", info.TotalSets, info.TotalPrompts)

	if _, err := os.Stat(filepath.Join(cfg.PromptsDir, prompts.DefaultTabularFile)); err == nil {
		app.printer.Printf("Tabular baselines: %s\n", prompts.DefaultTabularFile)
	}

	return nil
}

// previewPromptFile renders a markdown prompt file to the terminal. A bare
// filename is resolved against the prompts directory.
func (app *App) previewPromptFile(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	path := name
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(cfg.PromptsDir, name)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(string(content))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	app.printer.Printf("%s", rendered)
	return nil
}
