package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opflow/opflow-cli/internal/cli"
)

// ListResult represents the output structure for list command
type ListResult struct {
	Type  string     `json:"type" yaml:"type"`
	Items []ListItem `json:"items" yaml:"items"`
	Count int        `json:"count" yaml:"count"`
}

// ListItem represents a single item in the list
type ListItem struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Operators   int    `json:"operators,omitempty" yaml:"operators,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Starred     bool   `json:"starred,omitempty" yaml:"starred,omitempty"`
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [type]",
		Short: "List templates and operators",
		Long: `List pipeline templates and catalog operators from the registry.

Types:
  templates   - List pipeline templates (default)
  operators   - List catalog operators

Examples:
  # List templates
  opflow list

  # List operators with JSON output
  opflow list operators -o json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"templates", "operators"},
		RunE:      runList,
	}
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	listType := "templates"
	if len(args) > 0 {
		listType = strings.ToLower(args[0])
	}
	if !cli.Contains([]string{"templates", "operators"}, listType) {
		return fmt.Errorf("unknown list type: %s (must be: templates or operators)", listType)
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	registryFlag, _ := cmd.Flags().GetString("registry")

	ctx := cli.NewCommandContext(registryFlag)
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	var result ListResult
	result.Type = listType

	switch listType {
	case "templates":
		templates, err := client.Templates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		for _, tpl := range templates {
			result.Items = append(result.Items, ListItem{
				ID:          tpl.ID,
				Name:        tpl.Name,
				Type:        "template",
				Description: tpl.Description,
				Operators:   len(tpl.Instance),
			})
		}

	case "operators":
		settings := ctx.LoadSettingsWithDefault()
		operators, err := client.Operators(cmd.Context(), 0, settings.Registry.PageSize)
		if err != nil {
			return fmt.Errorf("failed to list operators: %w", err)
		}
		for _, op := range operators {
			result.Items = append(result.Items, ListItem{
				ID:          op.ID,
				Name:        op.Name,
				Type:        "operator",
				Description: op.Description,
				Version:     op.Version,
				Starred:     op.Starred,
			})
		}
	}

	result.Count = len(result.Items)

	if outputFormat == "text" {
		printListText(result)
		return nil
	}
	return cli.OutputResults(os.Stdout, outputFormat, result)
}

func printListText(result ListResult) {
	if result.Count == 0 {
		fmt.Printf("No %s found\n", result.Type)
		return
	}

	table := cli.NewTable(os.Stdout)
	if result.Type == "templates" {
		table.Header("ID", "NAME", "OPERATORS", "DESCRIPTION")
		for _, item := range result.Items {
			table.Row(item.ID, item.Name, fmt.Sprintf("%d", item.Operators), cli.Truncate(item.Description, 40))
		}
	} else {
		table.Header("ID", "NAME", "VERSION", "STARRED", "DESCRIPTION")
		for _, item := range result.Items {
			star := ""
			if item.Starred {
				star = "*"
			}
			table.Row(item.ID, item.Name, item.Version, star, cli.Truncate(item.Description, 40))
		}
	}
	table.Flush()
	fmt.Printf("\n%d %s\n", result.Count, result.Type)
}
