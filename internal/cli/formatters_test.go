package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestOutputResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]interface{}{"name": "basic clean", "operators": 3}

	if err := OutputResults(&buf, "json", data); err != nil {
		t.Fatalf("OutputResults failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["name"] != "basic clean" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestOutputResultsYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputResults(&buf, "yaml", map[string]string{"name": "basic"}); err != nil {
		t.Fatalf("OutputResults failed: %v", err)
	}
	if !strings.Contains(buf.String(), "name: basic") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestOutputResultsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputResults(&buf, "xml", nil); err == nil {
		t.Error("unknown format must fail")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten!", 12, "exactly ten!"},
		{"a longer description here", 10, "a longe..."},
		{"abc", 2, "ab"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 3); got != "abcdef" {
		t.Errorf("PadRight must not truncate, got %q", got)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.Header("NAME", "OPERATORS")
	table.Row("basic clean", "3")
	table.Flush()

	out := buf.String()
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "basic clean") {
		t.Errorf("table output = %q", out)
	}
	if !strings.Contains(out, "----") {
		t.Errorf("missing header rule: %q", out)
	}
}
