package commands

import (
	"github.com/spf13/cobra"

	"github.com/opflow/opflow-cli/internal/cli"
)

var starRemove bool

// NewStarCommand creates the star command
func NewStarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "star <operator-id>",
		Short: "Star or unstar a catalog operator",
		Long: `Mark a catalog operator as a favorite, or remove the mark. Starred
operators can be filtered in the composer's picker.

Examples:
  # Star an operator
  opflow star op-dedup

  # Remove the star
  opflow star op-dedup --remove`,
		Args: cobra.ExactArgs(1),
		RunE: runStar,
	}
	cmd.Flags().BoolVar(&starRemove, "remove", false, "Remove the star instead of setting it")
	return cmd
}

func runStar(cmd *cobra.Command, args []string) error {
	registryFlag, _ := cmd.Flags().GetString("registry")

	ctx := cli.NewCommandContext(registryFlag)
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	if err := client.StarOperator(cmd.Context(), args[0], !starRemove); err != nil {
		return err
	}
	if starRemove {
		cli.PrintSuccess("Unstarred operator %s", args[0])
	} else {
		cli.PrintSuccess("Starred operator %s", args[0])
	}
	return nil
}
