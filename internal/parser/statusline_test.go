package parser

import (
	"strings"
	"testing"
)

func TestParseStatusline(t *testing.T) {
	input := `{"session_id":"s1","model":{"id":"claude-opus-4-1-20250805","display_name":"Opus"},"workspace":{"current_dir":"/src/app","project_dir":"/src/app"}}`

	got, err := ParseStatusline(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ModelName() != "claude-opus-4-1-20250805" {
		t.Errorf("ModelName = %q", got.ModelName())
	}
	if got.Workspace.CurrentDir != "/src/app" {
		t.Errorf("CurrentDir = %q", got.Workspace.CurrentDir)
	}
}

func TestParseStatusline_DisplayNameFallback(t *testing.T) {
	got, err := ParseStatusline(strings.NewReader(`{"model":{"display_name":"Sonnet 4"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ModelName() != "Sonnet 4" {
		t.Errorf("ModelName = %q, want Sonnet 4", got.ModelName())
	}
}

func TestParseStatusline_Empty(t *testing.T) {
	got, err := ParseStatusline(strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if got.ModelName() != "" {
		t.Errorf("ModelName = %q, want empty", got.ModelName())
	}
}

func TestParseStatusline_Invalid(t *testing.T) {
	if _, err := ParseStatusline(strings.NewReader("{nope")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
