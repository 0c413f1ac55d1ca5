package commands

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/opflow/opflow-cli/internal/cli"
	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/store"
)

var (
	submitFile       string
	submitTemplateID string
	submitCopy       bool
)

// NewSubmitCommand creates the submit command
func NewSubmitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <template|task>",
		Short: "Submit a template or task definition from a YAML file",
		Long: `Submit a pipeline definition to the registry.

A template file is the shape produced by 'opflow export'. A task file
carries the same instance list plus task metadata (name, source dataset,
destination). Instance overrides must be complete effective
configurations, as exported.

Examples:
  # Create a new template
  opflow submit template -f cleanup.yaml

  # Update an existing template
  opflow submit template -f cleanup.yaml --id tpl-42

  # Create a one-off task
  opflow submit task -f nightly-clean.yaml

  # Copy the request body to the clipboard instead of submitting
  opflow submit task -f nightly-clean.yaml --copy`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"template", "task"},
		RunE:      runSubmit,
	}
	cmd.Flags().StringVarP(&submitFile, "file", "f", "", "Definition file (required)")
	cmd.Flags().StringVar(&submitTemplateID, "id", "", "Template id to update instead of creating")
	cmd.Flags().BoolVar(&submitCopy, "copy", false, "Copy the request body to the clipboard instead of submitting")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateFilePath(submitFile); err != nil {
		return err
	}

	registryFlag, _ := cmd.Flags().GetString("registry")
	ctx := cli.NewCommandContext(registryFlag)

	switch args[0] {
	case "template":
		tpl, err := store.ImportTemplate(submitFile)
		if err != nil {
			return err
		}
		if err := cli.ValidateTemplateName(tpl.Name); err != nil {
			return err
		}
		payload := models.TemplatePayload{
			Name:        tpl.Name,
			Description: tpl.Description,
			Instance:    tpl.Instance,
		}
		if submitCopy {
			return copyPayload(payload)
		}

		client, err := ctx.Client()
		if err != nil {
			return err
		}
		if submitTemplateID != "" {
			if err := client.UpdateTemplate(cmd.Context(), submitTemplateID, payload); err != nil {
				return err
			}
			cli.PrintSuccess("Updated template %s", submitTemplateID)
			return nil
		}
		if err := client.CreateTemplate(cmd.Context(), payload); err != nil {
			return err
		}
		cli.PrintSuccess("Created template %s", tpl.Name)
		return nil

	case "task":
		task, err := store.ImportTask(submitFile)
		if err != nil {
			return err
		}
		if submitCopy {
			return copyPayload(task)
		}

		client, err := ctx.Client()
		if err != nil {
			return err
		}
		if err := client.CreateTask(cmd.Context(), task); err != nil {
			return err
		}
		cli.PrintSuccess("Created task %s", task.Name)
		return nil

	default:
		return fmt.Errorf("unknown submit type: %s (must be: template or task)", args[0])
	}
}

func copyPayload(payload interface{}) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := clipboard.WriteAll(string(body)); err != nil {
		return fmt.Errorf("failed to copy payload to clipboard: %w", err)
	}
	cli.PrintSuccess("Copied request body to clipboard (%d bytes)", len(body))
	return nil
}
