package domain

import "strings"

// Model is a coarse Claude model family.
type Model string

const (
	ModelOpus   Model = "opus"
	ModelSonnet Model = "sonnet"
	ModelHaiku  Model = "haiku"
)

// Models lists the families a user may force, in display order.
var Models = []Model{ModelOpus, ModelSonnet, ModelHaiku}

func (m Model) Valid() bool {
	switch m {
	case ModelOpus, ModelSonnet, ModelHaiku:
		return true
	}
	return false
}

// ParseModel normalizes a family name. The second result is false for
// anything outside Models.
func ParseModel(s string) (Model, bool) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// FamilyOf extracts the family from a full model id or display name such as
// "claude-opus-4-1-20250805" or "Sonnet 4".
func FamilyOf(name string) (Model, bool) {
	lower := strings.ToLower(name)
	for _, m := range Models {
		if strings.Contains(lower, string(m)) {
			return m, true
		}
	}
	return "", false
}
