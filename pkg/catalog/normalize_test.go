package catalog

import (
	"reflect"
	"testing"

	"github.com/opflow/opflow-cli/pkg/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		settings   string
		wantErr    bool
		wantKeys   int
		checkAfter func(t *testing.T, op models.NormalizedOperator)
	}{
		{
			name:     "empty blob yields empty maps",
			settings: "",
			wantKeys: 0,
		},
		{
			name:     "whitespace blob yields empty maps",
			settings: "   \n\t",
			wantKeys: 0,
		},
		{
			name:     "typed parameters decode",
			settings: `{"threshold":{"type":"number","value":0.5,"min":0,"max":1},"column":{"type":"string","value":"name"}}`,
			wantKeys: 2,
			checkAfter: func(t *testing.T, op models.NormalizedOperator) {
				if op.Defaults["threshold"] != 0.5 {
					t.Errorf("Defaults[threshold] = %v, want 0.5", op.Defaults["threshold"])
				}
				if op.Configs["threshold"].Min == nil || *op.Configs["threshold"].Min != 0 {
					t.Error("min bound lost in decode")
				}
				if op.Defaults["column"] != "name" {
					t.Errorf("Defaults[column] = %v, want name", op.Defaults["column"])
				}
			},
		},
		{
			name:     "options as bare strings",
			settings: `{"mode":{"type":"select","value":"drop","options":["drop","fill"]}}`,
			wantKeys: 1,
			checkAfter: func(t *testing.T, op models.NormalizedOperator) {
				opts := op.Configs["mode"].Options
				if len(opts) != 2 || opts[0].Label != "drop" || opts[0].Value != "drop" {
					t.Errorf("options = %+v", opts)
				}
			},
		},
		{
			name:     "options as label value pairs",
			settings: `{"mode":{"type":"select","value":"a","options":[{"label":"Drop rows","value":"a"}]}}`,
			wantKeys: 1,
			checkAfter: func(t *testing.T, op models.NormalizedOperator) {
				opts := op.Configs["mode"].Options
				if len(opts) != 1 || opts[0].Label != "Drop rows" || opts[0].Value != "a" {
					t.Errorf("options = %+v", opts)
				}
			},
		},
		{
			name:     "malformed blob degrades to no configuration",
			settings: `{"broken":`,
			wantErr:  true,
			wantKeys: 0,
		},
		{
			name:     "non-object blob degrades to no configuration",
			settings: `[1,2,3]`,
			wantErr:  true,
			wantKeys: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := models.OperatorDefinition{ID: "op-1", Name: "Op", Settings: tt.settings}
			op, err := Normalize(def)

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(op.Configs) != tt.wantKeys {
				t.Errorf("len(Configs) = %d, want %d", len(op.Configs), tt.wantKeys)
			}
			if len(op.Defaults) != len(op.Configs) {
				t.Errorf("Defaults keys (%d) must mirror Configs keys (%d)", len(op.Defaults), len(op.Configs))
			}
			// The operator itself always survives, even when its
			// settings do not decode.
			if op.ID != "op-1" {
				t.Errorf("ID = %q", op.ID)
			}
			if tt.checkAfter != nil {
				tt.checkAfter(t, op)
			}
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	def := models.OperatorDefinition{
		ID:       "op-1",
		Settings: `{"threshold":{"type":"number","value":0.5}}`,
	}
	a, err1 := Normalize(def)
	b, err2 := Normalize(def)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v / %v", err1, err2)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("normalizing the same definition twice must yield deep-equal results")
	}
}

func TestNormalizeAllCollectsErrors(t *testing.T) {
	defs := []models.OperatorDefinition{
		{ID: "good", Settings: `{"x":{"type":"string","value":"v"}}`},
		{ID: "bad", Settings: `{{{`},
		{ID: "bare"},
	}
	ops, errs := NormalizeAll(defs)

	if len(ops) != 3 {
		t.Fatalf("len(ops) = %d, want 3: a bad blob must not drop the operator", len(ops))
	}
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if len(ops[1].Configs) != 0 {
		t.Error("malformed operator must come back configuration-less")
	}
	if len(ops[0].Configs) != 1 {
		t.Error("well-formed operator lost its configuration")
	}
}
