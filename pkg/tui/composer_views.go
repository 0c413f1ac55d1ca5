package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/pipeline"
)

var (
	composerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("170"))

	paneHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true)

	normalRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	dimRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	grabbedRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	starGlyphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

func (m *ComposerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.loadingTemplate {
		b.WriteString(m.spin.View() + " Loading template...\n")
		return b.String()
	}

	if m.switcherActive {
		b.WriteString(m.renderSwitcher())
		return b.String()
	}
	if m.saveActive {
		b.WriteString(m.renderSaveOverlay())
		return b.String()
	}

	paneWidth := m.width/3 - 4
	if paneWidth < 20 {
		paneWidth = 20
	}
	paneHeight := m.height - 7
	if paneHeight < 5 {
		paneHeight = 5
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.stylePane(catalogPane, paneWidth, paneHeight).Render(m.renderCatalog(paneWidth, paneHeight)),
		m.stylePane(sequencePane, paneWidth, paneHeight).Render(m.renderSequence(paneWidth, paneHeight)),
		m.stylePane(paramsPane, paneWidth, paneHeight).Render(m.renderParams(paneWidth, paneHeight)),
	)
	b.WriteString(panes)
	b.WriteString("\n")

	if m.confirm.Active() {
		b.WriteString(m.confirm.ViewWithWidth(m.width))
	} else {
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

func (m *ComposerModel) stylePane(pane composerPane, width, height int) lipgloss.Style {
	s := paneStyle
	if m.pane == pane {
		s = activePaneStyle
	}
	return s.Width(width).Height(height)
}

func (m *ComposerModel) renderHeader() string {
	title := "PIPELINE COMPOSER"
	if m.editTemplateID != "" {
		name := m.saveNameInput.Value()
		if name == "" {
			name = m.editTemplateID
		}
		title = fmt.Sprintf("EDIT TEMPLATE: %s", name)
	}
	return composerTitleStyle.Render(title)
}

func (m *ComposerModel) renderCatalog(width, height int) string {
	var b strings.Builder
	b.WriteString(paneHeaderStyle.Render(m.catalogTitle()) + "\n")

	if m.filtering {
		b.WriteString(m.filterInput.View() + "\n")
	} else if m.filterQuery != "" {
		b.WriteString(dimRowStyle.Render("filter: "+m.filterQuery) + "\n")
	}

	if m.loadingCatalog {
		b.WriteString(m.spin.View() + " Loading catalog...")
		return b.String()
	}
	if m.catalog == nil {
		b.WriteString(dimRowStyle.Render("Catalog unavailable."))
		return b.String()
	}
	if len(m.visible) == 0 {
		b.WriteString(dimRowStyle.Render("No operators match."))
		return b.String()
	}

	rows := height - 4
	if rows < 1 {
		rows = 1
	}
	start := windowStart(m.catalogCursor, len(m.visible), rows)
	for i := start; i < len(m.visible) && i < start+rows; i++ {
		op := m.visible[i]

		marker := "  "
		if m.model.Contains(op.ID) {
			marker = "✓ "
		}
		star := " "
		if op.Starred {
			star = starGlyphStyle.Render("★")
		}
		row := fmt.Sprintf("%s%s %s", marker, star, op.Name)
		if m.settings != nil && m.settings.UI.CatalogView == "grouped" {
			if label := m.operatorCategoryLabel(op); label != "" {
				row += dimRowStyle.Render(" · " + label)
			}
		}
		row = truncate.StringWithTail(row, uint(width-2), "…")
		if i == m.catalogCursor {
			b.WriteString(selectedRowStyle.Render("> "+row) + "\n")
		} else {
			b.WriteString(normalRowStyle.Render("  "+row) + "\n")
		}
	}
	return b.String()
}

// operatorCategoryLabel picks one category label for a catalog row: the
// operator's facet for the first group that declares one, else its first
// category id resolved to a name.
func (m *ComposerModel) operatorCategoryLabel(op models.NormalizedOperator) string {
	if m.catalog != nil {
		for _, group := range m.catalog.Groups {
			if label, ok := op.Facets[group.Name]; ok {
				return label
			}
		}
	}
	if len(op.OperatorDefinition.Categories) > 0 {
		id := op.OperatorDefinition.Categories[0]
		if m.catalog != nil {
			return m.catalog.CategoryName(id)
		}
		return id
	}
	return ""
}

func (m *ComposerModel) catalogTitle() string {
	parts := []string{"OPERATORS"}
	if m.activeCategory >= 0 && m.activeCategory < len(m.categories) {
		parts = append(parts, m.categories[m.activeCategory].Name)
	}
	if m.starredOnly {
		parts = append(parts, "★")
	}
	return strings.Join(parts, " · ")
}

func (m *ComposerModel) renderSequence(width, height int) string {
	var b strings.Builder
	b.WriteString(paneHeaderStyle.Render(fmt.Sprintf("PIPELINE (%d)", m.model.Len())) + "\n")

	if m.model.Len() == 0 {
		b.WriteString(dimRowStyle.Render("Empty. Toggle operators on the left."))
		return b.String()
	}

	focused := m.model.Focused()
	for i, inst := range m.model.Instances() {
		label := fmt.Sprintf("%d. %s", i+1, m.instanceLabel(inst))
		if len(inst.Overrides) > 0 {
			label += fmt.Sprintf(" (%d)", len(inst.Overrides))
		}
		if focused != nil && focused.Key == inst.Key {
			label += " ◂"
		}
		label = truncate.StringWithTail(label, uint(width-4), "…")

		switch {
		case m.drag.Active() && m.drag.Grabbed() == inst.Key:
			b.WriteString(grabbedRowStyle.Render("↕ "+label) + "\n")
		case m.drag.Active() && m.drag.Hover() == inst.Key:
			b.WriteString(selectedRowStyle.Render("▸ "+label) + "\n")
		case !m.drag.Active() && i == m.seqCursor && m.pane == sequencePane:
			b.WriteString(selectedRowStyle.Render("> "+label) + "\n")
		default:
			b.WriteString(normalRowStyle.Render("  "+label) + "\n")
		}

		if m.editingPosition == inst.Key {
			b.WriteString("  move to: " + m.positionInput.View() + "\n")
		}
		if m.settings != nil && m.settings.UI.ShowParams && i == m.seqCursor && len(inst.Overrides) > 0 {
			keys := make([]string, 0, len(inst.Overrides))
			for key := range inst.Overrides {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				line := truncate.StringWithTail(fmt.Sprintf("     %s = %v", key, inst.Overrides[key]), uint(width-2), "…")
				b.WriteString(dimRowStyle.Render(line) + "\n")
			}
		}
	}
	return b.String()
}

func (m *ComposerModel) renderParams(width, height int) string {
	var b strings.Builder
	b.WriteString(paneHeaderStyle.Render("PARAMETERS") + "\n")

	inst := m.model.Focused()
	if inst == nil {
		b.WriteString(dimRowStyle.Render("Select an instance to configure."))
		return b.String()
	}

	b.WriteString(normalRowStyle.Render(m.instanceLabel(inst)) + "\n")
	if tags := m.categoryTags(inst); tags != "" {
		b.WriteString(dimRowStyle.Render(truncate.StringWithTail(tags, uint(width-2), "…")) + "\n")
	}
	if inst.Operator.Description != "" {
		desc := wordwrap.String(inst.Operator.Description, width-2)
		b.WriteString(dimRowStyle.Render(desc) + "\n")
	}
	b.WriteString("\n")

	keys := m.paramKeys()
	if len(keys) == 0 {
		b.WriteString(dimRowStyle.Render("No parameters."))
		return b.String()
	}

	effective := pipeline.EffectiveConfig(inst)
	for i, key := range keys {
		spec := inst.Configs[key]
		label := key
		if spec.Name != "" {
			label = spec.Name
		}

		if m.editingParam == key {
			b.WriteString(selectedRowStyle.Render("> "+label+": ") + m.paramInput.View() + "\n")
			continue
		}

		value := fmt.Sprintf("%v", effective[key])
		row := fmt.Sprintf("%s: %s", label, value)
		if _, overridden := inst.Overrides[key]; overridden {
			row += " *"
		}
		row = truncate.StringWithTail(row, uint(width-4), "…")
		if i == m.paramCursor && m.pane == paramsPane {
			b.WriteString(selectedRowStyle.Render("> "+row) + "\n")
		} else {
			b.WriteString(normalRowStyle.Render("  "+row) + "\n")
		}
	}
	return b.String()
}

// categoryTags resolves an instance's category ids to display labels.
// Before the tree arrives the ids themselves show.
func (m *ComposerModel) categoryTags(inst *pipeline.Instance) string {
	ids := inst.Operator.OperatorDefinition.Categories
	if len(ids) == 0 {
		return ""
	}
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if m.catalog != nil {
			labels = append(labels, m.catalog.CategoryName(id))
		} else {
			labels = append(labels, id)
		}
	}
	return strings.Join(labels, ", ")
}

func (m *ComposerModel) renderSwitcher() string {
	var b strings.Builder
	b.WriteString(paneHeaderStyle.Render("APPLY TEMPLATE") + "\n\n")
	b.WriteString(dimRowStyle.Render("Applying replaces the current pipeline.") + "\n\n")

	for i, tpl := range m.binder.Candidates() {
		row := fmt.Sprintf("%s (%d operators)", tpl.Name, len(tpl.Instance))
		if i == m.switcherCursor {
			b.WriteString(selectedRowStyle.Render("> "+row) + "\n")
		} else {
			b.WriteString(normalRowStyle.Render("  "+row) + "\n")
		}
	}

	b.WriteString("\n" + dimRowStyle.Render("enter apply · esc cancel"))
	return b.String()
}

func (m *ComposerModel) renderSaveOverlay() string {
	verb := "Save new template"
	if m.editTemplateID != "" {
		verb = "Update template"
	}

	var b strings.Builder
	b.WriteString(paneHeaderStyle.Render(strings.ToUpper(verb)) + "\n\n")
	b.WriteString("Name:        " + m.saveNameInput.View() + "\n")
	b.WriteString("Description: " + m.saveDescInput.View() + "\n\n")
	b.WriteString(dimRowStyle.Render("enter next/save · tab switch field · esc cancel"))
	return b.String()
}

func (m *ComposerModel) renderFooter() string {
	if m.saving {
		return m.spin.View() + " Saving..."
	}

	var help string
	switch m.pane {
	case catalogPane:
		help = "enter toggle · / filter · [ ] category · f starred · s star · a add all"
	case sequencePane:
		if m.drag.Active() {
			help = "↑↓ move · enter drop · esc cancel"
		} else {
			help = "g grab · # position · enter configure · d remove · c clear"
		}
	case paramsPane:
		help = "↑↓ select · enter edit"
	}
	help += " · tab pane · t template · ^s save · y copy · esc back"
	return dimRowStyle.Render(truncate.StringWithTail(help, uint(m.width), "…"))
}

// windowStart picks the first visible row so the cursor stays within a
// window of the given size.
func windowStart(cursor, total, window int) int {
	if total <= window {
		return 0
	}
	start := cursor - window/2
	if start < 0 {
		start = 0
	}
	if start > total-window {
		start = total - window
	}
	return start
}
