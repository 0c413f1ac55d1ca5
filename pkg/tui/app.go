package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/registry"
)

type sessionState int

const (
	templateListView sessionState = iota
	composerView
)

type App struct {
	state     sessionState
	list      *TemplateListModel
	composer  *ComposerModel
	svc       registry.Service
	settings  *models.Settings
	width     int
	height    int
	statusMsg string
}

func NewApp(svc registry.Service, settings *models.Settings) *App {
	return &App{
		state:    templateListView,
		list:     NewTemplateListModel(svc),
		svc:      svc,
		settings: settings,
	}
}

func (a *App) Init() tea.Cmd {
	return a.list.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.list != nil {
			a.list.SetSize(msg.Width, msg.Height)
		}
		if a.composer != nil {
			a.composer.SetSize(msg.Width, msg.Height)
		}

	case tea.KeyMsg:
		// Global keybindings
		if msg.Type == tea.KeyCtrlC {
			if a.composer != nil {
				a.composer.Teardown()
			}
			return a, tea.Quit
		}
		// The status bar shows the outcome of the last action; the next
		// keypress retires it.
		a.statusMsg = ""

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil

	case SwitchViewMsg:
		switch msg.view {
		case templateListView:
			a.state = templateListView
			// The composer's in-flight fetches must not outlive it.
			if a.composer != nil {
				a.composer.Teardown()
				a.composer = nil
			}
			a.list.SetSize(a.width, a.height)
			return a, a.list.Init()
		case composerView:
			a.state = composerView
			if a.composer != nil {
				a.composer.Teardown()
			}
			a.composer = NewComposerModel(a.svc, a.settings, msg.templateID)
			a.composer.SetSize(a.width, a.height)
			return a, a.composer.Init()
		}
	}

	// Route updates to the active view
	var cmd tea.Cmd
	switch a.state {
	case templateListView:
		var m tea.Model
		m, cmd = a.list.Update(msg)
		if tl, ok := m.(*TemplateListModel); ok {
			a.list = tl
		}
	case composerView:
		if a.composer == nil {
			break
		}
		var m tea.Model
		m, cmd = a.composer.Update(msg)
		if cm, ok := m.(*ComposerModel); ok {
			a.composer = cm
		}
	}

	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var content string
	switch a.state {
	case templateListView:
		content = a.list.View()
	case composerView:
		content = a.composer.View()
	default:
		content = "Unknown view"
	}

	if a.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

		statusBar := statusStyle.Render(a.statusMsg)
		content = lipgloss.JoinVertical(lipgloss.Top, content, statusBar)
	}

	return content
}

// Messages for communication between views
type StatusMsg string

type SwitchViewMsg struct {
	view       sessionState
	templateID string // non-empty switches the composer into edit mode
}

func statusCmd(format string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg(format)
	}
}
