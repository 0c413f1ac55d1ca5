package pipeline

import "github.com/opflow/opflow-cli/pkg/models"

// EffectiveConfig resolves the full parameter map for an instance: the
// override when one exists, else the working-copy value (which was seeded
// from the operator's default at normalization time). SetOverride keeps
// the working copy mirrored, so today both sources agree; the two-source
// definition is still the contract, not the mirroring.
func EffectiveConfig(inst *Instance) map[string]interface{} {
	out := make(map[string]interface{}, len(inst.Configs))
	for key, spec := range inst.Configs {
		if val, ok := inst.Overrides[key]; ok {
			out[key] = val
			continue
		}
		out[key] = spec.Value
	}
	return out
}

// Descriptor projects an instance into its persisted wire shape. The
// descriptor's Overrides field is the full effective configuration -
// defaults first, user overrides second, shallow merge by key - because
// that is what the execution backend expects. Override keys unknown to
// the current catalog (carried over from a stored template) survive the
// merge untouched.
func Descriptor(inst *Instance) models.InstanceDescriptor {
	overrides := make(map[string]interface{}, len(inst.Operator.Defaults)+len(inst.Overrides))
	for key, val := range inst.Operator.Defaults {
		overrides[key] = val
	}
	for key, val := range inst.Overrides {
		overrides[key] = val
	}

	return models.InstanceDescriptor{
		ID:         inst.Operator.ID,
		Overrides:  overrides,
		Categories: inst.Operator.OperatorDefinition.Categories,
		Inputs:     inst.Operator.Inputs,
		Outputs:    inst.Operator.Outputs,
	}
}

// Descriptors projects the whole sequence in order.
func Descriptors(m *Model) []models.InstanceDescriptor {
	out := make([]models.InstanceDescriptor, 0, m.Len())
	for _, inst := range m.Instances() {
		out = append(out, Descriptor(inst))
	}
	return out
}
