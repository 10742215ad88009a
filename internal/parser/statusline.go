package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// StatuslineInput is the subset of the JSON Claude Code pipes to a
// statusline command that we use.
type StatuslineInput struct {
	SessionID string `json:"session_id"`
	Model     struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"model"`
	Workspace struct {
		CurrentDir string `json:"current_dir"`
		ProjectDir string `json:"project_dir"`
	} `json:"workspace"`
}

// ModelName prefers the full id and falls back to the display name.
func (s StatuslineInput) ModelName() string {
	if s.Model.ID != "" {
		return s.Model.ID
	}
	return s.Model.DisplayName
}

// ParseStatusline reads one statusline payload. Empty input is not an error.
func ParseStatusline(r io.Reader) (StatuslineInput, error) {
	var in StatuslineInput
	data, err := io.ReadAll(r)
	if err != nil {
		return in, fmt.Errorf("read statusline input: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return in, nil
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("decode statusline input: %w", err)
	}
	return in, nil
}
