package pipeline

import (
	"github.com/google/uuid"

	"github.com/opflow/opflow-cli/pkg/models"
)

// Instance is one placement of an operator within the composed sequence.
//
// Overrides is the minimal diff against the operator's defaults: it only
// carries keys the user changed. Configs is a working copy of the
// operator's parameter map whose Value fields are kept in sync with
// Overrides, so the rendering layer reads one uniform source regardless
// of whether a value is a default or a user choice.
type Instance struct {
	Key       string
	Operator  models.NormalizedOperator
	Overrides map[string]interface{}
	Configs   map[string]models.ParamSpec
}

// NewInstance builds a fresh instance for an operator: empty overrides,
// working-copy configs seeded from the operator's declared parameters.
// The key is unique per placement, so two instances of the same operator
// in different pipelines never alias.
func NewInstance(op models.NormalizedOperator) *Instance {
	configs := make(map[string]models.ParamSpec, len(op.Configs))
	for key, spec := range op.Configs {
		configs[key] = spec
	}
	return &Instance{
		Key:      uuid.NewString(),
		Operator: op,
		Configs:  configs,
	}
}

// Model owns the ordered sequence of selected instances and the pointer
// to the instance currently focused for configuration. All mutations go
// through it; it is driven by a single event loop and needs no locking.
type Model struct {
	sequence []*Instance
	focused  string
}

func NewModel() *Model {
	return &Model{}
}

// Instances returns the sequence in order.
func (m *Model) Instances() []*Instance {
	return m.sequence
}

func (m *Model) Len() int {
	return len(m.sequence)
}

// IndexOf returns the position of an instance key, or -1.
func (m *Model) IndexOf(key string) int {
	for i, inst := range m.sequence {
		if inst.Key == key {
			return i
		}
	}
	return -1
}

// At returns the instance at a position, or nil when out of range.
func (m *Model) At(i int) *Instance {
	if i < 0 || i >= len(m.sequence) {
		return nil
	}
	return m.sequence[i]
}

// Contains reports whether any instance of the operator id is selected.
func (m *Model) Contains(operatorID string) bool {
	for _, inst := range m.sequence {
		if inst.Operator.ID == operatorID {
			return true
		}
	}
	return false
}

// Toggle adds a fresh instance of the operator, or removes the existing
// one if the operator is already in the sequence. Repeated toggles of the
// same operator alternate between present and absent.
func (m *Model) Toggle(op models.NormalizedOperator) {
	for _, inst := range m.sequence {
		if inst.Operator.ID == op.ID {
			m.Remove(inst.Key)
			return
		}
	}
	m.sequence = append(m.sequence, NewInstance(op))
}

// Remove deletes an instance by key and drops focus if it pointed at the
// removed instance. Unknown keys are a no-op.
func (m *Model) Remove(key string) {
	for i, inst := range m.sequence {
		if inst.Key == key {
			m.sequence = append(m.sequence[:i], m.sequence[i+1:]...)
			if m.focused == key {
				m.focused = ""
			}
			return
		}
	}
}

// Clear empties the sequence and the focus pointer.
func (m *Model) Clear() {
	m.sequence = nil
	m.focused = ""
}

// Replace swaps in a whole new sequence, discarding the old one and its
// focus. Template selection uses this: templates are complete pipelines,
// so partial merging is never correct.
func (m *Model) Replace(instances []*Instance) {
	m.sequence = instances
	m.focused = ""
}

// Focus marks an instance as the one being configured. An unknown key
// clears the focus.
func (m *Model) Focus(key string) {
	if m.IndexOf(key) < 0 {
		m.focused = ""
		return
	}
	m.focused = key
}

// Focused returns the instance currently being configured, or nil.
func (m *Model) Focused() *Instance {
	if m.focused == "" {
		return nil
	}
	if i := m.IndexOf(m.focused); i >= 0 {
		return m.sequence[i]
	}
	return nil
}

// SetOverride records a user-chosen value for one parameter and mirrors
// it into the working-copy configs so display and payload stay
// consistent: Overrides remains the minimal diff for persistence, Configs
// the uniform source the rendering layer reads.
func (inst *Instance) SetOverride(paramKey string, value interface{}) {
	if inst.Overrides == nil {
		inst.Overrides = make(map[string]interface{})
	}
	inst.Overrides[paramKey] = value

	if inst.Configs == nil {
		inst.Configs = make(map[string]models.ParamSpec)
	}
	spec := inst.Configs[paramKey]
	spec.Value = value
	inst.Configs[paramKey] = spec
}

// SetOverride applies an override to the instance with the given key.
// Returns false when the instance is unknown.
func (m *Model) SetOverride(key, paramKey string, value interface{}) bool {
	i := m.IndexOf(key)
	if i < 0 {
		return false
	}
	m.sequence[i].SetOverride(paramKey, value)
	return true
}

// ReorderTo moves an instance to a target position, preserving the
// relative order of everything else. Out-of-range targets and unknown
// keys are a no-op, never an error: a badly typed position must not
// corrupt the ordering. Returns true when the sequence changed.
func (m *Model) ReorderTo(key string, target int) bool {
	if target < 0 || target >= len(m.sequence) {
		return false
	}
	from := m.IndexOf(key)
	if from < 0 || from == target {
		return false
	}

	inst := m.sequence[from]
	rest := append(m.sequence[:from], m.sequence[from+1:]...)
	m.sequence = append(rest[:target], append([]*Instance{inst}, rest[target:]...)...)
	return true
}
