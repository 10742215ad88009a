package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRequest marks a drop file that cannot be applied.
var ErrInvalidRequest = errors.New("invalid update request")

// UpdateRequest is the payload of the drop file a running monitor consumes.
type UpdateRequest struct {
	ID        string    `json:"id,omitempty"`
	Input     int       `json:"input"`
	Output    int       `json:"output"`
	Estimated bool      `json:"estimated"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRequest stamps a request with a fresh id.
func NewRequest(input, output int, estimated bool, now time.Time) UpdateRequest {
	return UpdateRequest{
		ID:        uuid.NewString(),
		Input:     input,
		Output:    output,
		Estimated: estimated,
		Timestamp: now,
	}
}

// Empty reports whether applying the request would change nothing.
func (r UpdateRequest) Empty() bool {
	return r.Input == 0 && r.Output == 0
}

// ParseRequest decodes a drop file body. Unknown fields are ignored;
// missing counts default to zero.
func ParseRequest(r io.Reader) (UpdateRequest, error) {
	var req UpdateRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return UpdateRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.Input < 0 || req.Output < 0 {
		return UpdateRequest{}, fmt.Errorf("%w: negative token counts", ErrInvalidRequest)
	}
	return req, nil
}
