package pipeline

import (
	"testing"

	"github.com/opflow/opflow-cli/pkg/models"
)

func testOperator(id string, params map[string]interface{}) models.NormalizedOperator {
	configs := make(map[string]models.ParamSpec, len(params))
	defaults := make(map[string]interface{}, len(params))
	for key, val := range params {
		configs[key] = models.ParamSpec{Name: key, Value: val}
		defaults[key] = val
	}
	return models.NormalizedOperator{
		OperatorDefinition: models.OperatorDefinition{
			ID:   id,
			Name: "op-" + id,
		},
		Configs:  configs,
		Defaults: defaults,
	}
}

func sequenceIDs(m *Model) []string {
	ids := make([]string, 0, m.Len())
	for _, inst := range m.Instances() {
		ids = append(ids, inst.Operator.ID)
	}
	return ids
}

func TestToggleAlternatesPresence(t *testing.T) {
	m := NewModel()
	op := testOperator("dedup", nil)

	// An odd number of toggles leaves the operator present, an even
	// number absent.
	for round := 1; round <= 4; round++ {
		m.Toggle(op)
		wantPresent := round%2 == 1
		if m.Contains(op.ID) != wantPresent {
			t.Errorf("after %d toggles, Contains = %v, want %v", round, m.Contains(op.ID), wantPresent)
		}
	}
	if m.Len() != 0 {
		t.Errorf("expected empty sequence after even toggles, got %d", m.Len())
	}
}

func TestToggleAppendsAtEnd(t *testing.T) {
	m := NewModel()
	m.Toggle(testOperator("a", nil))
	m.Toggle(testOperator("b", nil))
	m.Toggle(testOperator("c", nil))

	got := sequenceIDs(m)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sequence = %v, want %v", got, want)
		}
	}
}

func TestInstanceKeysAreUniquePerPlacement(t *testing.T) {
	op := testOperator("dedup", nil)
	a := NewInstance(op)
	b := NewInstance(op)
	if a.Key == b.Key {
		t.Error("two placements of the same operator must not share a key")
	}
}

func TestRemoveClearsFocus(t *testing.T) {
	m := NewModel()
	m.Toggle(testOperator("a", nil))
	m.Toggle(testOperator("b", nil))

	first := m.At(0)
	m.Focus(first.Key)
	if m.Focused() == nil {
		t.Fatal("expected focus to be set")
	}

	m.Remove(first.Key)
	if m.Focused() != nil {
		t.Error("removing the focused instance must clear the focus")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestRemoveUnknownKeyIsNoop(t *testing.T) {
	m := NewModel()
	m.Toggle(testOperator("a", nil))
	m.Remove("no-such-key")
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestSetOverrideMirrorsIntoConfigs(t *testing.T) {
	m := NewModel()
	m.Toggle(testOperator("trim", map[string]interface{}{
		"threshold": 0.5,
		"column":    "name",
	}))
	inst := m.At(0)

	if !m.SetOverride(inst.Key, "threshold", 0.9) {
		t.Fatal("SetOverride returned false for a known instance")
	}

	// The override is the sparse diff.
	if got := inst.Overrides["threshold"]; got != 0.9 {
		t.Errorf("Overrides[threshold] = %v, want 0.9", got)
	}
	if _, ok := inst.Overrides["column"]; ok {
		t.Error("untouched parameter must not appear in Overrides")
	}

	// The working copy mirrors the override.
	if got := inst.Configs["threshold"].Value; got != 0.9 {
		t.Errorf("Configs[threshold].Value = %v, want 0.9", got)
	}
	if got := inst.Configs["column"].Value; got != "name" {
		t.Errorf("Configs[column].Value = %v, want the default", got)
	}
}

func TestSetOverrideUnknownInstance(t *testing.T) {
	m := NewModel()
	if m.SetOverride("ghost", "x", 1) {
		t.Error("SetOverride must return false for an unknown instance")
	}
}

func TestOverridesDoNotLeakBetweenInstances(t *testing.T) {
	op := testOperator("cast", map[string]interface{}{"target": "string"})
	a := NewInstance(op)
	b := NewInstance(op)

	a.SetOverride("target", "int")
	if b.Configs["target"].Value != "string" {
		t.Error("override on one instance leaked into another instance's working copy")
	}
	if len(b.Overrides) != 0 {
		t.Error("override on one instance leaked into another instance's overrides")
	}
}

func TestReplaceDiscardsPriorSequence(t *testing.T) {
	m := NewModel()
	m.Toggle(testOperator("a", nil))
	inst := m.At(0)
	inst.SetOverride("x", 1)
	m.Focus(inst.Key)

	fresh := []*Instance{NewInstance(testOperator("b", nil))}
	m.Replace(fresh)

	if m.Len() != 1 || m.At(0).Operator.ID != "b" {
		t.Fatalf("sequence after Replace = %v", sequenceIDs(m))
	}
	if m.Focused() != nil {
		t.Error("Replace must clear the focus")
	}
	if len(m.At(0).Overrides) != 0 {
		t.Error("Replace must not carry overrides into the new sequence")
	}
}

func TestReorderTo(t *testing.T) {
	tests := []struct {
		name    string
		move    string // operator id to move
		target  int
		want    []string
		changed bool
	}{
		{"to front", "c", 0, []string{"c", "a", "b", "d"}, true},
		{"to back", "a", 3, []string{"b", "c", "d", "a"}, true},
		{"middle forward", "b", 2, []string{"a", "c", "b", "d"}, true},
		{"same position", "b", 1, []string{"a", "b", "c", "d"}, false},
		{"target too large", "a", 4, []string{"a", "b", "c", "d"}, false},
		{"negative target", "a", -1, []string{"a", "b", "c", "d"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel()
			for _, id := range []string{"a", "b", "c", "d"} {
				m.Toggle(testOperator(id, nil))
			}
			var key string
			for _, inst := range m.Instances() {
				if inst.Operator.ID == tt.move {
					key = inst.Key
				}
			}

			changed := m.ReorderTo(key, tt.target)
			if changed != tt.changed {
				t.Errorf("ReorderTo changed = %v, want %v", changed, tt.changed)
			}
			got := sequenceIDs(m)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("sequence = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestReorderUnknownKey(t *testing.T) {
	m := NewModel()
	m.Toggle(testOperator("a", nil))
	if m.ReorderTo("ghost", 0) {
		t.Error("ReorderTo must return false for an unknown key")
	}
}
