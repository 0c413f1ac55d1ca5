package models

import (
	"encoding/json"
	"testing"
)

func TestOperatorDefinitionCollectsFacets(t *testing.T) {
	doc := `{
		"id": "dedup",
		"name": "Deduplicate",
		"settings": "{}",
		"isStar": true,
		"modality": "text",
		"stage": "cleaning",
		"updatedAt": 1718000000,
		"tags": ["a", "b"]
	}`

	var def OperatorDefinition
	if err := json.Unmarshal([]byte(doc), &def); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if def.ID != "dedup" || def.Name != "Deduplicate" || !def.Starred {
		t.Errorf("declared fields lost: %+v", def)
	}
	if def.Facets["modality"] != "text" || def.Facets["stage"] != "cleaning" {
		t.Errorf("Facets = %v", def.Facets)
	}
	// Non-string extras are not categorization facets.
	if _, ok := def.Facets["updatedAt"]; ok {
		t.Error("numeric extra field must not become a facet")
	}
	if _, ok := def.Facets["tags"]; ok {
		t.Error("array extra field must not become a facet")
	}
	// Declared fields never double as facets.
	if _, ok := def.Facets["name"]; ok {
		t.Error("declared field must not appear in Facets")
	}
}

func TestOperatorDefinitionNoExtras(t *testing.T) {
	var def OperatorDefinition
	if err := json.Unmarshal([]byte(`{"id":"x","name":"X"}`), &def); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if def.Facets != nil {
		t.Errorf("Facets = %v, want nil when no extras are present", def.Facets)
	}
}

func TestOptionUnmarshalForms(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Option
	}{
		{"bare string", `"drop"`, Option{Label: "drop", Value: "drop"}},
		{"label value pair", `{"label":"Drop rows","value":"drop"}`, Option{Label: "Drop rows", Value: "drop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Option
			if err := json.Unmarshal([]byte(tt.doc), &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOptionUnmarshalRejectsOtherShapes(t *testing.T) {
	var got Option
	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Error("numeric option must not decode")
	}
}

func TestTaskPayloadInlinesMeta(t *testing.T) {
	payload := TaskPayload{
		TaskMeta: TaskMeta{
			Name:            "nightly",
			SrcDatasetID:    "ds-1",
			DestDatasetName: "ds-1-clean",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var flat map[string]interface{}
	if err := json.Unmarshal(body, &flat); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	// Task metadata sits at the top level of the request body, next to
	// the instance list.
	if flat["name"] != "nightly" || flat["srcDatasetId"] != "ds-1" {
		t.Errorf("task body = %s", body)
	}
	if _, nested := flat["TaskMeta"]; nested {
		t.Error("task metadata must not nest under a struct key")
	}
}
