package model

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/lo"
)

//go:embed multipliers.json
var defaultMultipliersJSON []byte

// DefaultMultiplier applies to models the table does not know.
const DefaultMultiplier = 1.0

// Table maps a model family (or a more specific id) to a consumption
// multiplier used for display-side budget math.
type Table map[string]float64

func LoadDefault() (Table, error) {
	var table Table
	if err := json.Unmarshal(defaultMultipliersJSON, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// Merge adds entries from other into t. Existing keys are overwritten.
func (t Table) Merge(other map[string]float64) {
	for k, v := range other {
		t[strings.ToLower(k)] = v
	}
}

// Lookup finds the multiplier for a model, trying an exact match and then
// the longest key contained in the name, so "claude-opus-4-1" resolves to
// "opus" unless a more specific key exists.
func (t Table) Lookup(model string) (float64, bool) {
	name := strings.ToLower(strings.TrimSpace(model))
	if name == "" {
		return 0, false
	}
	if m, ok := t[name]; ok {
		return m, true
	}
	var bestKey string
	for key := range t {
		if strings.Contains(name, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return t[bestKey], true
	}
	return 0, false
}

// Multiplier is Lookup with the unknown-model fallback applied.
func (t Table) Multiplier(model string) float64 {
	if m, ok := t.Lookup(model); ok {
		return m
	}
	return DefaultMultiplier
}

// Keys returns the table keys in sorted order.
func (t Table) Keys() []string {
	keys := lo.Keys(t)
	sort.Strings(keys)
	return keys
}
