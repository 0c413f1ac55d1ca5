package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/opflow/opflow-cli/pkg/models"
)

func TestNewValidatesURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"http URL", "http://localhost:8080", false},
		{"https URL with path", "https://registry.example.com/base", false},
		{"trailing slash trimmed", "http://localhost:8080/", false},
		{"missing scheme", "localhost:8080", true},
		{"empty", "", true},
		{"bare path", "/api", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.url, time.Second)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) err = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestOperatorsPostsPaging(t *testing.T) {
	var gotBody map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/operators/list" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"id": "dedup", "name": "Deduplicate", "modality": "text"},
			},
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defs, err := c.Operators(context.Background(), 2, 50)
	if err != nil {
		t.Fatalf("Operators failed: %v", err)
	}

	if gotBody["page"] != 2 || gotBody["size"] != 50 {
		t.Errorf("request body = %v", gotBody)
	}
	if len(defs) != 1 || defs[0].ID != "dedup" {
		t.Fatalf("defs = %+v", defs)
	}
	// The facet survives the envelope decode.
	if defs[0].Facets["modality"] != "text" {
		t.Errorf("Facets = %v", defs[0].Facets)
	}
}

func TestStarOperatorRequest(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, time.Second)
	if err := c.StarOperator(context.Background(), "op 1", true); err != nil {
		t.Fatalf("StarOperator failed: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s", gotMethod)
	}
	if gotPath != "/api/operators/op%201" && gotPath != "/api/operators/op 1" {
		t.Errorf("path = %s", gotPath)
	}
	if gotBody["isStar"] != true || gotBody["id"] != "op 1" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestTemplateLifecycleRoutes(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/cleaning/templates":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"content": []map[string]interface{}{{"id": "tpl-1", "name": "basic"}},
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/cleaning/templates/"):
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "tpl-1", "name": "basic"})
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c, _ := New(srv.URL, time.Second)
	ctx := context.Background()

	tpls, err := c.Templates(ctx)
	if err != nil || len(tpls) != 1 {
		t.Fatalf("Templates = %+v, %v", tpls, err)
	}
	tpl, err := c.Template(ctx, "tpl-1")
	if err != nil || tpl.ID != "tpl-1" {
		t.Fatalf("Template = %+v, %v", tpl, err)
	}
	if err := c.CreateTemplate(ctx, models.TemplatePayload{Name: "n"}); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateTemplate(ctx, "tpl-1", models.TemplatePayload{Name: "n"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteTemplate(ctx, "tpl-1"); err != nil {
		t.Fatal(err)
	}
	if err := c.CreateTask(ctx, models.TaskPayload{TaskMeta: models.TaskMeta{Name: "t"}}); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{http.MethodGet, "/api/cleaning/templates"},
		{http.MethodGet, "/api/cleaning/templates/tpl-1"},
		{http.MethodPost, "/api/cleaning/templates"},
		{http.MethodPut, "/api/cleaning/templates/tpl-1"},
		{http.MethodDelete, "/api/cleaning/templates/tpl-1"},
		{http.MethodPost, "/api/cleaning/tasks"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template name already exists", http.StatusConflict)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, time.Second)
	err := c.CreateTemplate(context.Background(), models.TemplatePayload{Name: "dup"})
	if err == nil {
		t.Fatal("expected an error for a 409")
	}
	if !strings.Contains(err.Error(), "template name already exists") {
		t.Errorf("error should carry the response body, got: %v", err)
	}
}

func TestLoadCatalogFetchesConcurrently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/operators/list":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"content": []map[string]interface{}{
					{"id": "dedup", "name": "Deduplicate", "modality": "text",
						"settings": `{"threshold":{"type":"number","value":0.5}}`},
					{"id": "broken", "name": "Broken", "settings": `{{{`},
				},
			})
		case "/api/operators/categories/tree":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"content": []map[string]interface{}{
					{"id": "g-1", "name": "modality", "categories": []map[string]interface{}{
						{"id": "c-text", "name": "text"},
					}},
				},
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, _ := New(srv.URL, time.Second)
	idx, warnings, err := LoadCatalog(context.Background(), c, 100)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	// The malformed settings blob degrades, it does not fail the load.
	if len(warnings) != 1 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(idx.Operators) != 2 {
		t.Errorf("len(Operators) = %d, want 2", len(idx.Operators))
	}
	op, ok := idx.Operator("dedup")
	if !ok || op.Defaults["threshold"] != 0.5 {
		t.Errorf("dedup = %+v, %v", op, ok)
	}
	if len(idx.Groups) != 1 || idx.Groups[0].Entries[0].Count != 1 {
		t.Errorf("groups = %+v", idx.Groups)
	}
}

func TestLoadCatalogFailsWhenEitherFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/operators/categories/tree" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"content": []interface{}{}})
	}))
	defer srv.Close()

	c, _ := New(srv.URL, time.Second)
	if _, _, err := LoadCatalog(context.Background(), c, 100); err == nil {
		t.Fatal("a failed tree fetch must fail the load")
	}
}
