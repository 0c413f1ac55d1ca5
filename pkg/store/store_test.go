package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opflow/opflow-cli/pkg/models"
)

func TestTemplateExportImportRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exports", "basic-clean.yaml")

	tpl := models.Template{
		ID:          "tpl-1",
		Name:        "basic clean",
		Description: "dedup and trim",
		Instance: []models.InstanceDescriptor{
			{
				ID: "dedup",
				Overrides: map[string]interface{}{
					"threshold": 0.9,
					"column":    "name",
				},
				Categories: []string{"c-text"},
				Inputs:     "table",
				Outputs:    "table",
			},
		},
	}

	// Export creates intermediate directories.
	if err := ExportTemplate(path, tpl); err != nil {
		t.Fatalf("ExportTemplate failed: %v", err)
	}

	got, err := ImportTemplate(path)
	if err != nil {
		t.Fatalf("ImportTemplate failed: %v", err)
	}
	if got.Name != tpl.Name || got.Description != tpl.Description {
		t.Errorf("metadata = %+v", got)
	}
	if len(got.Instance) != 1 {
		t.Fatalf("len(Instance) = %d", len(got.Instance))
	}
	inst := got.Instance[0]
	if inst.ID != "dedup" || inst.Inputs != "table" {
		t.Errorf("instance = %+v", inst)
	}
	if inst.Overrides["threshold"] != 0.9 || inst.Overrides["column"] != "name" {
		t.Errorf("overrides = %v", inst.Overrides)
	}
}

func TestImportTemplateMissingFile(t *testing.T) {
	if _, err := ImportTemplate(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("importing a missing file must fail")
	}
}

func TestImportTemplateMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("name: [unclosed"), 0644)
	if _, err := ImportTemplate(path); err == nil {
		t.Error("malformed YAML must fail the import")
	}
}

func TestImportTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.yaml")
	doc := `name: nightly clean
srcDatasetId: ds-1
destDatasetName: ds-1-clean
instance:
  - id: dedup
    overrides:
      threshold: 0.9
    categories: [c-text]
    inputs: table
    outputs: table
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	task, err := ImportTask(path)
	if err != nil {
		t.Fatalf("ImportTask failed: %v", err)
	}
	// Task metadata inlines at the document top level.
	if task.Name != "nightly clean" || task.SrcDatasetID != "ds-1" || task.DestDatasetName != "ds-1-clean" {
		t.Errorf("meta = %+v", task.TaskMeta)
	}
	if len(task.Instance) != 1 || task.Instance[0].ID != "dedup" {
		t.Errorf("instance = %+v", task.Instance)
	}
}
