package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opflow/opflow-cli/pkg/models"
)

// Normalize decodes an operator's settings blob into its typed parameter
// map and derives the default-value map from it. It is the single decode
// step for operator settings: everything past this point only sees the
// normalized shape, never the encoded string.
//
// An empty or absent blob yields empty maps. A malformed blob yields a
// configuration-less operator together with the decode error, so callers
// can surface the defect without losing the operator itself.
//
// Normalize is pure: the same definition always yields deep-equal results,
// which the override merge relies on when templates are re-hydrated.
func Normalize(def models.OperatorDefinition) (models.NormalizedOperator, error) {
	op := models.NormalizedOperator{
		OperatorDefinition: def,
		Configs:            map[string]models.ParamSpec{},
		Defaults:           map[string]interface{}{},
	}

	blob := strings.TrimSpace(def.Settings)
	if blob == "" {
		return op, nil
	}

	var configs map[string]models.ParamSpec
	if err := json.Unmarshal([]byte(blob), &configs); err != nil {
		return op, fmt.Errorf("operator %s: malformed settings blob: %w", def.ID, err)
	}

	for key, spec := range configs {
		op.Configs[key] = spec
		op.Defaults[key] = spec.Value
	}
	return op, nil
}

// NormalizeAll normalizes a fetched operator list. Malformed settings
// blobs degrade to configuration-less operators; their errors are
// collected so the caller can report them.
func NormalizeAll(defs []models.OperatorDefinition) ([]models.NormalizedOperator, []error) {
	ops := make([]models.NormalizedOperator, 0, len(defs))
	var errs []error
	for _, def := range defs {
		op, err := Normalize(def)
		if err != nil {
			errs = append(errs, err)
		}
		ops = append(ops, op)
	}
	return ops, errs
}
