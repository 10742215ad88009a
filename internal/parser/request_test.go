package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    UpdateRequest
		wantErr bool
	}{
		{
			name:  "manual request",
			input: `{"input": 1000, "output": 500, "timestamp": "2026-02-21T10:00:00Z"}`,
			want: UpdateRequest{Input: 1000, Output: 500,
				Timestamp: time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC)},
		},
		{
			name:  "estimated with id",
			input: `{"id":"abc","input":0,"output":12,"estimated":true}`,
			want:  UpdateRequest{ID: "abc", Output: 12, Estimated: true},
		},
		{
			name:  "missing counts default to zero",
			input: `{"note":"ignored"}`,
			want:  UpdateRequest{},
		},
		{
			name:    "negative count",
			input:   `{"input": -5}`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `{input: 1`,
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("err = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want.ID || got.Input != tt.want.Input || got.Output != tt.want.Output ||
				got.Estimated != tt.want.Estimated || !got.Timestamp.Equal(tt.want.Timestamp) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewRequest(t *testing.T) {
	now := time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC)
	a := NewRequest(10, 20, false, now)
	b := NewRequest(10, 20, false, now)

	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", a.ID, err)
	}
	if a.ID == b.ID {
		t.Error("two requests share an id")
	}
	if a.Input != 10 || a.Output != 20 || !a.Timestamp.Equal(now) {
		t.Errorf("unexpected request: %+v", a)
	}
}

func TestUpdateRequest_Empty(t *testing.T) {
	if !(UpdateRequest{}).Empty() {
		t.Error("zero request should be empty")
	}
	if (UpdateRequest{Output: 1}).Empty() {
		t.Error("request with output should not be empty")
	}
}
