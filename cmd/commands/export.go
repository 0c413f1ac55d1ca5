package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opflow/opflow-cli/internal/cli"
	"github.com/opflow/opflow-cli/pkg/store"
)

var exportOutputFile string

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <template-id>",
		Short: "Export a template to a local YAML file",
		Long: `Export a pipeline template from the registry to a local YAML file,
suitable for editing and re-submitting with 'opflow submit'.

Examples:
  # Export next to the current directory
  opflow export tpl-42

  # Export to an explicit path
  opflow export tpl-42 -f ./templates/cleanup.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
	cmd.Flags().StringVarP(&exportOutputFile, "file", "f", "", "Destination file (defaults to <name>.yaml in the export path)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
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

	dest := exportOutputFile
	if dest == "" {
		settings := ctx.LoadSettingsWithDefault()
		dest = filepath.Join(settings.Export.Path, tpl.Name+".yaml")
	}

	if err := store.ExportTemplate(dest, tpl); err != nil {
		return err
	}

	cli.PrintSuccess("Exported template %s to %s", tpl.Name, dest)
	return nil
}
