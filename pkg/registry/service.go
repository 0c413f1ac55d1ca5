package registry

import (
	"context"

	"github.com/opflow/opflow-cli/pkg/models"
)

// Service is the backend surface the composer consumes. The TUI and the
// CLI commands depend on this interface; Client is the HTTP
// implementation and tests substitute fakes.
type Service interface {
	Operators(ctx context.Context, page, size int) ([]models.OperatorDefinition, error)
	CategoryTree(ctx context.Context) ([]models.CategoryGroup, error)
	StarOperator(ctx context.Context, id string, starred bool) error

	Templates(ctx context.Context) ([]models.Template, error)
	Template(ctx context.Context, id string) (models.Template, error)
	CreateTemplate(ctx context.Context, payload models.TemplatePayload) error
	UpdateTemplate(ctx context.Context, id string, payload models.TemplatePayload) error
	DeleteTemplate(ctx context.Context, id string) error

	CreateTask(ctx context.Context, payload models.TaskPayload) error
}
