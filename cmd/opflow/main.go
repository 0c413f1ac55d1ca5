package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/opflow/opflow-cli/cmd/commands"
	"github.com/opflow/opflow-cli/internal/cli"
	"github.com/opflow/opflow-cli/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	flagOutput   string
	flagRegistry string
	flagQuiet    bool
	flagNoColor  bool
	flagYes      bool
)

var rootCmd = &cobra.Command{
	Use:   "opflow",
	Short: "Terminal-based composer for operator pipelines",
	Long: `Opflow is a terminal client for a data-platform registry. It lets you
browse the operator catalog, assemble ordered cleaning pipelines, tune
per-instance parameters, and persist the result as a reusable template
or a one-off task definition.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.SetGlobalFlags(flagQuiet, flagNoColor, flagYes)
		return cli.ValidateOutputFormat(flagOutput)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewCommandContext(flagRegistry)
		client, err := ctx.Client()
		if err != nil {
			return err
		}

		app := tui.NewApp(client, ctx.LoadSettingsWithDefault())
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to start the terminal user interface: %v\n", err)
			fmt.Fprintf(os.Stderr, "This could be due to terminal compatibility issues. Try running in a different terminal.\n")
			os.Exit(1)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Opflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Opflow version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format: text, json, or yaml")
	rootCmd.PersistentFlags().StringVar(&flagRegistry, "registry", "", "Registry base URL (overrides OPFLOW_REGISTRY and settings)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable decorated output")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewSubmitCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
	rootCmd.AddCommand(commands.NewStarCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
