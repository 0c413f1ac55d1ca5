package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opflow/opflow-cli/internal/cli"
	"github.com/opflow/opflow-cli/pkg/models"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show a template's operators and configuration",
		Long: `Show a pipeline template: its metadata and the ordered operator
instances with their effective configuration.

Examples:
  # Show a template
  opflow show tpl-42

  # Full template as YAML
  opflow show tpl-42 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	registryFlag, _ := cmd.Flags().GetString("registry")

	ctx := cli.NewCommandContext(registryFlag)
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	tpl, err := client.Template(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch template: %w", err)
	}

	if outputFormat == "text" {
		printTemplateText(tpl)
		return nil
	}
	return cli.OutputResults(os.Stdout, outputFormat, tpl)
}

func printTemplateText(tpl models.Template) {
	fmt.Printf("Template: %s (%s)\n", tpl.Name, tpl.ID)
	if tpl.Description != "" {
		fmt.Printf("Description: %s\n", tpl.Description)
	}
	fmt.Printf("Operators: %d\n\n", len(tpl.Instance))

	for i, inst := range tpl.Instance {
		fmt.Printf("%d. %s\n", i+1, inst.ID)
		if inst.Inputs != "" || inst.Outputs != "" {
			fmt.Printf("   io: %s -> %s\n", inst.Inputs, inst.Outputs)
		}
		if len(inst.Categories) > 0 {
			fmt.Printf("   categories: %s\n", strings.Join(inst.Categories, ", "))
		}
		keys := make([]string, 0, len(inst.Overrides))
		for key := range inst.Overrides {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("   %s = %v\n", key, inst.Overrides[key])
		}
	}
}
