package pipeline

import (
	"fmt"

	"github.com/opflow/opflow-cli/pkg/models"
)

// TemplatePayload builds the create/update body for persisting the
// current sequence as a reusable template.
func TemplatePayload(name, description string, m *Model) (models.TemplatePayload, error) {
	if m.Len() == 0 {
		return models.TemplatePayload{}, fmt.Errorf("pipeline has no operators")
	}
	if name == "" {
		return models.TemplatePayload{}, fmt.Errorf("template name is required")
	}
	return models.TemplatePayload{
		Name:        name,
		Description: description,
		Instance:    Descriptors(m),
	}, nil
}

// TaskPayload builds the create body for a one-off task definition from
// the task metadata and the current sequence.
func TaskPayload(meta models.TaskMeta, m *Model) (models.TaskPayload, error) {
	if m.Len() == 0 {
		return models.TaskPayload{}, fmt.Errorf("pipeline has no operators")
	}
	if meta.Name == "" || meta.SrcDatasetID == "" || meta.DestDatasetName == "" {
		return models.TaskPayload{}, fmt.Errorf("task name, source dataset and destination name are required")
	}
	return models.TaskPayload{
		TaskMeta: meta,
		Instance: Descriptors(m),
	}, nil
}
