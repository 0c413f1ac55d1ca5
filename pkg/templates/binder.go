package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/opflow/opflow-cli/pkg/catalog"
	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/pipeline"
	"github.com/opflow/opflow-cli/pkg/registry"
)

// State tracks where the binder is in the template lifecycle.
type State int

const (
	// StateNone: no template involved; the composer builds from scratch.
	StateNone State = iota
	// StateList: candidate templates are loaded, none selected yet.
	StateList
	// StateSelected: a template is active and seeded the pipeline.
	StateSelected
)

// Binder loads templates from the registry and applies them to a
// pipeline model. Applying a template is a destructive replace of the
// whole sequence: templates are complete, self-consistent pipelines, so
// merging into in-progress work would produce incoherent configurations.
type Binder struct {
	svc registry.Service

	state      State
	candidates []models.Template
	current    *models.Template
}

func NewBinder(svc registry.Service) *Binder {
	return &Binder{svc: svc}
}

func (b *Binder) State() State {
	return b.state
}

// Candidates returns the loaded template list.
func (b *Binder) Candidates() []models.Template {
	return b.candidates
}

// Current returns the active template, or nil.
func (b *Binder) Current() *models.Template {
	return b.current
}

// LoadForEdit fetches one template by id and makes it the active
// template. On failure nothing is seeded and the binder stays in its
// prior state; the caller must leave the composer view rather than
// render a half-initialized pipeline.
func (b *Binder) LoadForEdit(ctx context.Context, id string) (models.Template, error) {
	tpl, err := b.svc.Template(ctx, id)
	if err != nil {
		return models.Template{}, fmt.Errorf("load template %s: %w", id, err)
	}
	b.candidates = []models.Template{tpl}
	b.current = &tpl
	b.state = StateSelected
	return tpl, nil
}

// LoadList fetches the candidate templates for create mode. The pipeline
// starts empty: the original console silently seeded from the first
// candidate, which is a product decision this client does not replicate -
// selection stays explicit.
func (b *Binder) LoadList(ctx context.Context) ([]models.Template, error) {
	tpls, err := b.svc.Templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	b.candidates = tpls
	b.current = nil
	b.state = StateList
	if len(tpls) == 0 {
		b.state = StateNone
	}
	return tpls, nil
}

// Select makes a candidate the active template. Returns false when the
// id is not among the candidates.
func (b *Binder) Select(id string) (models.Template, bool) {
	for _, tpl := range b.candidates {
		if tpl.ID == id {
			b.current = &tpl
			b.state = StateSelected
			return tpl, true
		}
	}
	return models.Template{}, false
}

// Seed replaces the model's sequence with fresh instances re-hydrated
// from a template's stored descriptors. Stored instances are always
// rebuilt from scratch - never patched - so overrides from a previous
// sequence can never leak into operators that happen to share parameter
// key names.
//
// When the catalog has the operator, its parameter declarations are
// restored and stored values that differ from the defaults become
// overrides. When the catalog has not arrived (or no longer carries the
// operator), the structural data still seeds: the instance keeps the
// descriptor's id, categories and io declarations, with every stored
// value as an override. Rendering catches up once the catalog lands.
func Seed(m *pipeline.Model, tpl models.Template, idx *catalog.Index) {
	instances := make([]*pipeline.Instance, 0, len(tpl.Instance))
	for _, desc := range tpl.Instance {
		var op models.NormalizedOperator
		found := false
		if idx != nil {
			op, found = idx.Operator(desc.ID)
		}
		if !found {
			op = models.NormalizedOperator{
				OperatorDefinition: models.OperatorDefinition{
					ID:         desc.ID,
					Categories: desc.Categories,
					Inputs:     desc.Inputs,
					Outputs:    desc.Outputs,
				},
				Configs:  map[string]models.ParamSpec{},
				Defaults: map[string]interface{}{},
			}
		}

		inst := pipeline.NewInstance(op)
		for key, val := range desc.Overrides {
			if found {
				if def, ok := op.Defaults[key]; ok && equalValue(def, val) {
					// Stored value is just the default; keep the diff sparse.
					continue
				}
			}
			inst.SetOverride(key, val)
		}
		instances = append(instances, inst)
	}
	m.Replace(instances)
}

// Rehydrate attaches catalog parameter declarations to instances that
// were seeded structurally, before the catalog arrived. The sequence,
// instance keys, and overrides survive untouched; only overrides that
// merely restate a catalog default leave the sparse diff. Operators the
// catalog still does not carry stay structural.
func Rehydrate(m *pipeline.Model, idx *catalog.Index) {
	if idx == nil {
		return
	}
	for _, inst := range m.Instances() {
		op, ok := idx.Operator(inst.Operator.ID)
		if !ok {
			continue
		}
		inst.Operator = op

		configs := make(map[string]models.ParamSpec, len(op.Configs))
		for key, spec := range op.Configs {
			configs[key] = spec
		}
		inst.Configs = configs

		for key, val := range inst.Overrides {
			if def, ok := op.Defaults[key]; ok && equalValue(def, val) {
				delete(inst.Overrides, key)
				continue
			}
			spec := configs[key]
			spec.Value = val
			configs[key] = spec
		}
	}
}

// equalValue compares through JSON so the wire's own equivalence rules
// apply: the number 1 and the string "1" differ, while int and float
// renderings of the same number do not.
func equalValue(a, b interface{}) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
