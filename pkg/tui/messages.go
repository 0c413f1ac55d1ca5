package tui

import (
	"github.com/opflow/opflow-cli/pkg/catalog"
	"github.com/opflow/opflow-cli/pkg/models"
)

// Async results carry the composer session that requested them. A result
// from a torn-down or superseded session is dropped on receipt, so a
// resolved-but-stale fetch can never mutate the current model.

type catalogLoadedMsg struct {
	session  int
	index    *catalog.Index
	warnings []error
}

type catalogFailedMsg struct {
	session int
	err     error
}

type templatesLoadedMsg struct {
	session   int
	templates []models.Template
}

// templateListFailedMsg is non-fatal: create mode continues with no
// candidates.
type templateListFailedMsg struct {
	session int
	err     error
}

// templateFailedMsg is fatal to the composer in edit mode: the view
// must not render a half-seeded pipeline.
type templateFailedMsg struct {
	session int
	err     error
}

type templateLoadedMsg struct {
	session  int
	template models.Template
}

type saveResultMsg struct {
	session int
	name    string
	update  bool
	err     error
}

type starResultMsg struct {
	session    int
	operatorID string
	starred    bool
	err        error
}

type templateDeletedMsg struct {
	id  string
	err error
}
