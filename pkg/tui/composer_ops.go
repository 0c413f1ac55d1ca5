package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/pipeline"
	"github.com/opflow/opflow-cli/pkg/registry"
)

// Async commands. Each closes over the composer's context and session:
// Teardown cancels the context, and the session stamp lets Update drop
// results that resolve after the composer is gone.

func (m *ComposerModel) loadCatalogCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	pageSize := 0
	if m.settings != nil {
		pageSize = m.settings.Registry.PageSize
	}
	return func() tea.Msg {
		idx, warnings, err := registry.LoadCatalog(ctx, m.svc, pageSize)
		if err != nil {
			return catalogFailedMsg{session: session, err: err}
		}
		return catalogLoadedMsg{session: session, index: idx, warnings: warnings}
	}
}

func (m *ComposerModel) loadTemplateCmd(id string) tea.Cmd {
	ctx, session := m.ctx, m.session
	binder := m.binder
	return func() tea.Msg {
		tpl, err := binder.LoadForEdit(ctx, id)
		if err != nil {
			return templateFailedMsg{session: session, err: err}
		}
		return templateLoadedMsg{session: session, template: tpl}
	}
}

func (m *ComposerModel) loadTemplatesCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	binder := m.binder
	return func() tea.Msg {
		tpls, err := binder.LoadList(ctx)
		if err != nil {
			return templateListFailedMsg{session: session, err: err}
		}
		return templatesLoadedMsg{session: session, templates: tpls}
	}
}

func (m *ComposerModel) saveCmd(payload models.TemplatePayload) tea.Cmd {
	ctx, session := m.ctx, m.session
	svc := m.svc
	id := m.editTemplateID
	return func() tea.Msg {
		var err error
		if id != "" {
			err = svc.UpdateTemplate(ctx, id, payload)
		} else {
			err = svc.CreateTemplate(ctx, payload)
		}
		return saveResultMsg{session: session, name: payload.Name, update: id != "", err: err}
	}
}

func (m *ComposerModel) starCmd(operatorID string, starred bool) tea.Cmd {
	ctx, session := m.ctx, m.session
	svc := m.svc
	return func() tea.Msg {
		err := svc.StarOperator(ctx, operatorID, starred)
		return starResultMsg{session: session, operatorID: operatorID, starred: starred, err: err}
	}
}

// copyPayload puts the template request body for the current sequence on
// the system clipboard, for pasting into API tooling.
func (m *ComposerModel) copyPayload() tea.Cmd {
	name := m.saveNameInput.Value()
	if name == "" {
		name = "draft"
	}
	payload, err := pipeline.TemplatePayload(name, m.saveDescInput.Value(), m.model)
	if err != nil {
		return statusCmd(fmt.Sprintf("× %v", err))
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return statusCmd(fmt.Sprintf("× Failed to encode payload: %v", err))
	}
	if err := clipboard.WriteAll(string(body)); err != nil {
		return statusCmd(fmt.Sprintf("× Failed to copy payload: %v", err))
	}
	return statusCmd(fmt.Sprintf("✓ Copied request body to clipboard (%d bytes)", len(body)))
}

// parseParamValue converts typed input into the value shape the
// parameter declares. Unknown or absent types pass the raw string
// through.
func parseParamValue(spec models.ParamSpec, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(spec.Type) {
	case "number", "int", "integer", "float", "double", "slider":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a number", raw)
		}
		if spec.Min != nil && v < *spec.Min {
			return nil, fmt.Errorf("%v is below the minimum %v", v, *spec.Min)
		}
		if spec.Max != nil && v > *spec.Max {
			return nil, fmt.Errorf("%v is above the maximum %v", v, *spec.Max)
		}
		return v, nil
	case "bool", "boolean", "switch":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not true or false", raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}
