package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opflow/opflow-cli/internal/cli"
	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/registry"
)

// TemplateListModel is the landing view: the saved pipeline templates,
// with entry points into the composer (new pipeline / edit template).
type TemplateListModel struct {
	svc registry.Service

	templates []models.Template
	cursor    int
	loading   bool
	loadErr   error

	confirm *ConfirmationModel
	spin    spinner.Model
	width   int
	height  int
}

func NewTemplateListModel(svc registry.Service) *TemplateListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &TemplateListModel{
		svc:     svc,
		confirm: NewConfirmation(),
		spin:    s,
		loading: true,
	}
}

func (m *TemplateListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *TemplateListModel) Init() tea.Cmd {
	m.loading = true
	m.loadErr = nil
	return tea.Batch(m.spin.Tick, m.fetchTemplates())
}

func (m *TemplateListModel) fetchTemplates() tea.Cmd {
	return func() tea.Msg {
		templates, err := m.svc.Templates(context.Background())
		if err != nil {
			return templateListFailedMsg{err: err}
		}
		return templatesLoadedMsg{templates: templates}
	}
}

func (m *TemplateListModel) deleteTemplate(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.DeleteTemplate(context.Background(), id)
		return templateDeletedMsg{id: id, err: err}
	}
}

func (m *TemplateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case templatesLoadedMsg:
		m.loading = false
		m.templates = msg.templates
		if m.cursor >= len(m.templates) {
			m.cursor = 0
		}
		return m, nil

	case templateListFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, statusCmd(fmt.Sprintf("× Failed to load templates: %v", msg.err))

	case templateDeletedMsg:
		if msg.err != nil {
			return m, statusCmd(fmt.Sprintf("× Delete failed: %v", msg.err))
		}
		return m, tea.Batch(m.fetchTemplates(), statusCmd("✓ Template deleted"))

	case tea.KeyMsg:
		if m.confirm.Active() {
			return m, m.confirm.Update(msg)
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.templates)-1 {
				m.cursor++
			}
		case "n":
			return m, func() tea.Msg {
				return SwitchViewMsg{view: composerView}
			}
		case "enter", "e":
			if tpl := m.selected(); tpl != nil {
				id := tpl.ID
				return m, func() tea.Msg {
					return SwitchViewMsg{view: composerView, templateID: id}
				}
			}
		case "ctrl+d":
			if tpl := m.selected(); tpl != nil {
				id, name := tpl.ID, tpl.Name
				m.confirm.ShowInline(
					fmt.Sprintf("Delete template '%s'?", name),
					true,
					func() tea.Cmd { return m.deleteTemplate(id) },
					nil,
				)
			}
		case "r":
			return m, m.Init()
		case "q", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *TemplateListModel) selected() *models.Template {
	if m.cursor < 0 || m.cursor >= len(m.templates) {
		return nil
	}
	return &m.templates[m.cursor]
}

func (m *TemplateListModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("170"))

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("170")).
		Background(lipgloss.Color("236")).
		Bold(true)

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("PIPELINE TEMPLATES") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spin.View() + " Loading templates...\n")
	case m.loadErr != nil:
		b.WriteString(dimStyle.Render(fmt.Sprintf("Could not reach the registry: %v", m.loadErr)) + "\n")
		b.WriteString(dimStyle.Render("Press r to retry, n to compose from scratch.") + "\n")
	case len(m.templates) == 0:
		b.WriteString(dimStyle.Render("No templates yet. Press n to compose a new pipeline.") + "\n")
	default:
		for i, tpl := range m.templates {
			row := fmt.Sprintf("%s  %s (%d operators)",
				cli.PadRight(tpl.Name, 28),
				cli.Truncate(tpl.Description, 40),
				len(tpl.Instance))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> "+row) + "\n")
			} else {
				b.WriteString(normalStyle.Render("  "+row) + "\n")
			}
		}
	}

	b.WriteString("\n")
	if m.confirm.Active() {
		b.WriteString(m.confirm.ViewWithWidth(m.width))
	} else {
		b.WriteString(dimStyle.Render("n new · enter edit · ^d delete · r reload · q quit"))
	}

	return b.String()
}
