package tui

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opflow/opflow-cli/pkg/catalog"
	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/pipeline"
	"github.com/opflow/opflow-cli/pkg/registry"
	"github.com/opflow/opflow-cli/pkg/templates"
)

type composerPane int

const (
	catalogPane composerPane = iota
	sequencePane
	paramsPane
)

// composerSessions hands out a fresh session id per composer. Async
// results are stamped with it, so results addressed to a torn-down
// composer are recognizably stale. Only the event loop constructs
// composers, so a plain counter is enough.
var composerSessions int

// ComposerModel is the pipeline editing view: the operator picker on
// the left, the ordered sequence in the middle, and the parameters of
// the focused instance on the right.
type ComposerModel struct {
	svc      registry.Service
	settings *models.Settings

	session int
	ctx     context.Context
	cancel  context.CancelFunc

	// Data
	catalog        *catalog.Index
	model          *pipeline.Model
	drag           *pipeline.Drag
	binder         *templates.Binder
	editTemplateID string

	// A template can land before the catalog does. The seed then carries
	// only structural data, and we re-seed once the catalog arrives.
	seededWithoutCatalog bool

	loadingCatalog  bool
	loadingTemplate bool
	saving          bool

	// Catalog pane
	visible        []models.NormalizedOperator
	catalogCursor  int
	filterInput    textinput.Model
	filtering      bool
	filterQuery    string
	starredOnly    bool
	categories     []models.Category // flattened tree, picker order
	activeCategory int               // index into categories, -1 for all

	// Sequence pane
	seqCursor       int
	positionInput   textinput.Model
	editingPosition string // instance key a typed position targets

	// Params pane
	paramCursor  int
	paramInput   textinput.Model
	editingParam string // parameter key being edited

	// Save overlay
	saveActive    bool
	saveNameInput textinput.Model
	saveDescInput textinput.Model
	saveField     int

	// Template switcher overlay
	switcherActive bool
	switcherCursor int

	pane    composerPane
	confirm *ConfirmationModel
	spin    spinner.Model
	width   int
	height  int
}

// NewComposerModel builds a composer. A non-empty templateID puts it in
// edit mode: the template is fetched and seeds the sequence before
// anything is editable.
func NewComposerModel(svc registry.Service, settings *models.Settings, templateID string) *ComposerModel {
	composerSessions++
	ctx, cancel := context.WithCancel(context.Background())

	filter := textinput.New()
	filter.Placeholder = "filter operators"
	filter.CharLimit = 64

	position := textinput.New()
	position.Placeholder = "position"
	position.CharLimit = 4
	position.Width = 6

	param := textinput.New()
	param.CharLimit = 256

	name := textinput.New()
	name.Placeholder = "template name"
	name.CharLimit = 120

	desc := textinput.New()
	desc.Placeholder = "description (optional)"
	desc.CharLimit = 240

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := pipeline.NewModel()
	return &ComposerModel{
		svc:             svc,
		settings:        settings,
		session:         composerSessions,
		ctx:             ctx,
		cancel:          cancel,
		model:           m,
		drag:            pipeline.NewDrag(m),
		binder:          templates.NewBinder(svc),
		editTemplateID:  templateID,
		loadingCatalog:  true,
		loadingTemplate: templateID != "",
		activeCategory:  -1,
		filterInput:     filter,
		positionInput:   position,
		paramInput:      param,
		saveNameInput:   name,
		saveDescInput:   desc,
		confirm:         NewConfirmation(),
		spin:            s,
	}
}

// Teardown cancels the composer's in-flight fetches. After it returns
// no pending command may mutate this composer: session checks drop any
// result that still resolves.
func (m *ComposerModel) Teardown() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *ComposerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ComposerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.loadCatalogCmd()}
	if m.editTemplateID != "" {
		cmds = append(cmds, m.loadTemplateCmd(m.editTemplateID))
	} else {
		cmds = append(cmds, m.loadTemplatesCmd())
	}
	return tea.Batch(cmds...)
}

func (m *ComposerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loadingCatalog && !m.loadingTemplate && !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case catalogLoadedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.loadingCatalog = false
		m.catalog = msg.index
		m.categories = flattenCategories(msg.index)
		m.refreshVisible()
		if m.seededWithoutCatalog {
			// Attach declarations in place; edits made while the catalog
			// was in flight must survive.
			templates.Rehydrate(m.model, m.catalog)
			m.seededWithoutCatalog = false
		}
		if n := len(msg.warnings); n > 0 {
			return m, statusCmd(fmt.Sprintf("× %d operator(s) have malformed settings and load without parameters", n))
		}
		return m, nil

	case catalogFailedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.loadingCatalog = false
		return m, statusCmd(fmt.Sprintf("× Failed to load operator catalog: %v", msg.err))

	case templateLoadedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.loadingTemplate = false
		templates.Seed(m.model, msg.template, m.catalog)
		m.seededWithoutCatalog = m.catalog == nil
		m.saveNameInput.SetValue(msg.template.Name)
		m.saveDescInput.SetValue(msg.template.Description)
		m.seqCursor = 0
		return m, statusCmd(fmt.Sprintf("✓ Editing template '%s'", msg.template.Name))

	case templateFailedMsg:
		// Edit mode must never show a half-initialized pipeline; bail
		// back to the list.
		if msg.session != m.session {
			return m, nil
		}
		m.loadingTemplate = false
		err := msg.err
		return m, tea.Batch(
			func() tea.Msg { return SwitchViewMsg{view: templateListView} },
			statusCmd(fmt.Sprintf("× Failed to load template: %v", err)),
		)

	case templatesLoadedMsg:
		if msg.session != m.session {
			return m, nil
		}
		// Candidates live in the binder; nothing to apply until the
		// user opens the switcher.
		return m, nil

	case templateListFailedMsg:
		if msg.session != m.session {
			return m, nil
		}
		return m, statusCmd(fmt.Sprintf("× Templates unavailable: %v", msg.err))

	case saveResultMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.saving = false
		if msg.err != nil {
			return m, statusCmd(fmt.Sprintf("× Save failed: %v", msg.err))
		}
		verb := "created"
		if msg.update {
			verb = "updated"
		}
		return m, statusCmd(fmt.Sprintf("✓ Template '%s' %s", msg.name, verb))

	case starResultMsg:
		if msg.session != m.session {
			return m, nil
		}
		if msg.err != nil {
			return m, statusCmd(fmt.Sprintf("× Star failed: %v", msg.err))
		}
		// The market list is the source of truth for stars; refetch
		// rather than patching the index in place.
		m.loadingCatalog = true
		return m, tea.Batch(m.spin.Tick, m.loadCatalogCmd())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *ComposerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays swallow input while active, innermost first.
	if m.confirm.Active() {
		return m, m.confirm.Update(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if m.editingPosition != "" {
		return m.handlePositionKey(msg)
	}
	if m.editingParam != "" {
		return m.handleParamEditKey(msg)
	}
	if m.saveActive {
		return m.handleSaveKey(msg)
	}
	if m.switcherActive {
		return m.handleSwitcherKey(msg)
	}

	switch msg.String() {
	case "tab":
		m.pane = (m.pane + 1) % 3
		return m, nil
	case "shift+tab":
		m.pane = (m.pane + 2) % 3
		return m, nil
	case "ctrl+s", "S":
		return m.openSaveOverlay()
	case "t":
		return m.openSwitcher()
	case "y":
		return m, m.copyPayload()
	case "q":
		return m.leave()
	case "esc":
		if m.drag.Active() {
			m.drag.Cancel()
			return m, nil
		}
		return m.leave()
	}

	switch m.pane {
	case catalogPane:
		return m.handleCatalogKey(msg)
	case sequencePane:
		return m.handleSequenceKey(msg)
	case paramsPane:
		return m.handleParamsKey(msg)
	}
	return m, nil
}

func (m *ComposerModel) leave() (tea.Model, tea.Cmd) {
	back := func() tea.Cmd {
		return func() tea.Msg { return SwitchViewMsg{view: templateListView} }
	}
	if m.model.Len() == 0 {
		return m, back()
	}
	m.confirm.ShowInline("Discard the current pipeline and return to templates?", true, back, nil)
	return m, nil
}

// --- catalog pane ---

func (m *ComposerModel) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.catalogCursor > 0 {
			m.catalogCursor--
		}
	case "down", "j":
		if m.catalogCursor < len(m.visible)-1 {
			m.catalogCursor++
		}
	case "enter", " ":
		if op, ok := m.operatorAtCursor(); ok {
			m.model.Toggle(op)
			if m.model.Contains(op.ID) {
				return m, statusCmd(fmt.Sprintf("✓ Added %s", op.Name))
			}
			return m, statusCmd(fmt.Sprintf("✓ Removed %s", op.Name))
		}
	case "a":
		added := 0
		for _, op := range m.visible {
			if !m.model.Contains(op.ID) {
				m.model.Toggle(op)
				added++
			}
		}
		if added > 0 {
			return m, statusCmd(fmt.Sprintf("✓ Added %d operator(s)", added))
		}
	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.filterQuery)
		m.filterInput.Focus()
		return m, textinput.Blink
	case "f":
		m.starredOnly = !m.starredOnly
		m.refreshVisible()
	case "[":
		m.cycleCategory(-1)
	case "]":
		m.cycleCategory(1)
	case "s":
		if op, ok := m.operatorAtCursor(); ok {
			return m, m.starCmd(op.ID, !op.Starred)
		}
	}
	return m, nil
}

func (m *ComposerModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterQuery = m.filterInput.Value()
		m.filterInput.Blur()
		m.refreshVisible()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterQuery = m.filterInput.Value()
	m.refreshVisible()
	return m, cmd
}

func (m *ComposerModel) operatorAtCursor() (models.NormalizedOperator, bool) {
	if m.catalogCursor < 0 || m.catalogCursor >= len(m.visible) {
		return models.NormalizedOperator{}, false
	}
	return m.visible[m.catalogCursor], true
}

func (m *ComposerModel) cycleCategory(step int) {
	if len(m.categories) == 0 {
		return
	}
	m.activeCategory += step
	if m.activeCategory < -1 {
		m.activeCategory = len(m.categories) - 1
	}
	if m.activeCategory >= len(m.categories) {
		m.activeCategory = -1
	}
	m.refreshVisible()
}

func (m *ComposerModel) refreshVisible() {
	if m.catalog == nil {
		m.visible = nil
		m.catalogCursor = 0
		return
	}
	var cats []string
	if m.activeCategory >= 0 && m.activeCategory < len(m.categories) {
		cats = []string{m.categories[m.activeCategory].ID}
	}
	m.visible = m.catalog.Filter(m.filterQuery, cats, m.starredOnly)
	if m.settings != nil && m.settings.UI.StarredFirst {
		sort.SliceStable(m.visible, func(i, j int) bool {
			return m.visible[i].Starred && !m.visible[j].Starred
		})
	}
	if m.catalogCursor >= len(m.visible) {
		m.catalogCursor = 0
	}
}

// --- sequence pane ---

func (m *ComposerModel) handleSequenceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.drag.Active() {
			m.moveHover(-1)
			return m, nil
		}
		if m.seqCursor > 0 {
			m.seqCursor--
		}
	case "down", "j":
		if m.drag.Active() {
			m.moveHover(1)
			return m, nil
		}
		if m.seqCursor < m.model.Len()-1 {
			m.seqCursor++
		}
	case "g":
		if inst := m.model.At(m.seqCursor); inst != nil {
			m.drag.Grab(inst.Key)
		}
	case "enter", " ":
		if m.drag.Active() {
			moved := m.drag.Drop()
			if moved {
				return m, statusCmd("✓ Reordered")
			}
			return m, nil
		}
		if inst := m.model.At(m.seqCursor); inst != nil {
			m.model.Focus(inst.Key)
			m.pane = paramsPane
			m.paramCursor = 0
		}
	case "#":
		if inst := m.model.At(m.seqCursor); inst != nil {
			m.editingPosition = inst.Key
			m.positionInput.SetValue("")
			m.positionInput.Focus()
			return m, textinput.Blink
		}
	case "d":
		if inst := m.model.At(m.seqCursor); inst != nil {
			name := m.instanceLabel(inst)
			m.model.Remove(inst.Key)
			if m.seqCursor >= m.model.Len() && m.seqCursor > 0 {
				m.seqCursor--
			}
			return m, statusCmd(fmt.Sprintf("✓ Removed %s", name))
		}
	case "c":
		if m.model.Len() > 0 {
			m.confirm.ShowInline("Clear the whole pipeline?", true, func() tea.Cmd {
				m.model.Clear()
				m.seqCursor = 0
				return statusCmd("✓ Pipeline cleared")
			}, nil)
		}
	}
	return m, nil
}

// moveHover shifts the drop target one slot while dragging. The cursor
// tracks the hover so the highlight follows the keys.
func (m *ComposerModel) moveHover(step int) {
	i := m.model.IndexOf(m.drag.Hover())
	if i < 0 {
		return
	}
	next := m.model.At(i + step)
	if next == nil {
		return
	}
	m.drag.HoverOver(next.Key)
	m.seqCursor = i + step
}

func (m *ComposerModel) handlePositionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		key := m.editingPosition
		typed := m.positionInput.Value()
		m.editingPosition = ""
		m.positionInput.Blur()
		if pipeline.MoveToPosition(m.model, key, typed) {
			m.seqCursor = m.model.IndexOf(key)
			return m, statusCmd("✓ Reordered")
		}
		// Invalid input leaves the order as it was.
		return m, nil
	case "esc":
		m.editingPosition = ""
		m.positionInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.positionInput, cmd = m.positionInput.Update(msg)
	return m, cmd
}

func (m *ComposerModel) instanceLabel(inst *pipeline.Instance) string {
	if inst.Operator.Name != "" {
		return inst.Operator.Name
	}
	return inst.Operator.ID
}

// --- params pane ---

// paramKeys returns the focused instance's parameter keys in a stable
// display order.
func (m *ComposerModel) paramKeys() []string {
	inst := m.model.Focused()
	if inst == nil {
		return nil
	}
	keys := make([]string, 0, len(inst.Configs))
	for key := range inst.Configs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (m *ComposerModel) handleParamsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.paramKeys()
	switch msg.String() {
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(keys)-1 {
			m.paramCursor++
		}
	case "enter":
		inst := m.model.Focused()
		if inst == nil || m.paramCursor >= len(keys) {
			return m, nil
		}
		key := keys[m.paramCursor]
		m.editingParam = key
		current := pipeline.EffectiveConfig(inst)[key]
		if current == nil {
			m.paramInput.SetValue("")
		} else {
			m.paramInput.SetValue(fmt.Sprintf("%v", current))
		}
		m.paramInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *ComposerModel) handleParamEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		inst := m.model.Focused()
		key := m.editingParam
		m.editingParam = ""
		m.paramInput.Blur()
		if inst == nil {
			return m, nil
		}
		value, err := parseParamValue(inst.Configs[key], m.paramInput.Value())
		if err != nil {
			return m, statusCmd(fmt.Sprintf("× %v", err))
		}
		inst.SetOverride(key, value)
		return m, nil
	case "esc":
		m.editingParam = ""
		m.paramInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.paramInput, cmd = m.paramInput.Update(msg)
	return m, cmd
}

// --- save overlay ---

func (m *ComposerModel) openSaveOverlay() (tea.Model, tea.Cmd) {
	if m.model.Len() == 0 {
		return m, statusCmd("× Nothing to save: the pipeline is empty")
	}
	m.saveActive = true
	m.saveField = 0
	m.saveNameInput.Focus()
	m.saveDescInput.Blur()
	return m, textinput.Blink
}

func (m *ComposerModel) handleSaveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.saveActive = false
		m.saveNameInput.Blur()
		m.saveDescInput.Blur()
		return m, nil
	case "tab", "shift+tab":
		m.saveField = 1 - m.saveField
		if m.saveField == 0 {
			m.saveNameInput.Focus()
			m.saveDescInput.Blur()
		} else {
			m.saveNameInput.Blur()
			m.saveDescInput.Focus()
		}
		return m, textinput.Blink
	case "enter":
		if m.saveField == 0 {
			m.saveField = 1
			m.saveNameInput.Blur()
			m.saveDescInput.Focus()
			return m, textinput.Blink
		}
		return m.submitSave()
	case "ctrl+s":
		return m.submitSave()
	}

	var cmd tea.Cmd
	if m.saveField == 0 {
		m.saveNameInput, cmd = m.saveNameInput.Update(msg)
	} else {
		m.saveDescInput, cmd = m.saveDescInput.Update(msg)
	}
	return m, cmd
}

func (m *ComposerModel) submitSave() (tea.Model, tea.Cmd) {
	payload, err := pipeline.TemplatePayload(m.saveNameInput.Value(), m.saveDescInput.Value(), m.model)
	if err != nil {
		return m, statusCmd(fmt.Sprintf("× %v", err))
	}
	m.saveActive = false
	m.saveNameInput.Blur()
	m.saveDescInput.Blur()
	m.saving = true
	return m, tea.Batch(m.spin.Tick, m.saveCmd(payload))
}

// --- template switcher overlay ---

func (m *ComposerModel) openSwitcher() (tea.Model, tea.Cmd) {
	if len(m.binder.Candidates()) == 0 {
		return m, statusCmd("× No templates to apply")
	}
	m.switcherActive = true
	m.switcherCursor = 0
	return m, nil
}

func (m *ComposerModel) handleSwitcherKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	candidates := m.binder.Candidates()
	switch msg.String() {
	case "esc", "t":
		m.switcherActive = false
		return m, nil
	case "up", "k":
		if m.switcherCursor > 0 {
			m.switcherCursor--
		}
	case "down", "j":
		if m.switcherCursor < len(candidates)-1 {
			m.switcherCursor++
		}
	case "enter":
		if m.switcherCursor >= len(candidates) {
			return m, nil
		}
		id := candidates[m.switcherCursor].ID
		name := candidates[m.switcherCursor].Name
		m.switcherActive = false

		apply := func() tea.Cmd {
			return m.applyTemplate(id, name)
		}
		if m.model.Len() > 0 {
			// Applying a template replaces the whole sequence; in-flight
			// edits do not survive it.
			m.confirm.ShowInline(fmt.Sprintf("Replace the current pipeline with '%s'?", name), true, apply, nil)
			return m, nil
		}
		return m, apply()
	}
	return m, nil
}

func (m *ComposerModel) applyTemplate(id, name string) tea.Cmd {
	tpl, ok := m.binder.Select(id)
	if !ok {
		return statusCmd(fmt.Sprintf("× Template '%s' is no longer available", name))
	}
	templates.Seed(m.model, tpl, m.catalog)
	m.seededWithoutCatalog = m.catalog == nil
	m.seqCursor = 0
	m.saveNameInput.SetValue(tpl.Name)
	m.saveDescInput.SetValue(tpl.Description)
	return statusCmd(fmt.Sprintf("✓ Applied template '%s'", name))
}

func flattenCategories(idx *catalog.Index) []models.Category {
	if idx == nil {
		return nil
	}
	var out []models.Category
	for _, group := range idx.Groups {
		for _, entry := range group.Entries {
			out = append(out, entry.Category)
		}
	}
	return out
}
