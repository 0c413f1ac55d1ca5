package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opflow/opflow-cli/internal/cli"
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete a template from the registry",
		Long: `Delete a pipeline template from the registry. Deletion is permanent;
the command asks for confirmation unless --yes is set.

Examples:
  # Delete with confirmation
  opflow delete tpl-42

  # Delete without prompting
  opflow delete tpl-42 -y`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	registryFlag, _ := cmd.Flags().GetString("registry")

	ctx := cli.NewCommandContext(registryFlag)
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Resolve the name for the prompt; the id still works if the
	// metadata fetch fails.
	label := args[0]
	if tpl, err := client.Template(cmd.Context(), args[0]); err == nil {
		label = fmt.Sprintf("%s (%s)", tpl.Name, tpl.ID)
	} else {
		cli.PrintWarning("Could not fetch template metadata: %v", err)
	}

	confirmed, err := cli.Confirm(fmt.Sprintf("Delete template %s?", label), false)
	if err != nil {
		return err
	}
	if !confirmed {
		cli.PrintInfo("Delete cancelled")
		return nil
	}

	if err := client.DeleteTemplate(cmd.Context(), args[0]); err != nil {
		return err
	}
	cli.PrintSuccess("Deleted template %s", args[0])
	return nil
}
