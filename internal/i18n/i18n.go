package i18n

import "fmt"

// Language represents a supported locale.
type Language string

const (
	LangEN Language = "en"
	LangKO Language = "ko"
)

var current Language = LangEN

var tables = map[Language]map[string]string{
	LangEN: en,
	LangKO: ko,
}

// SetLanguage changes the active locale.
// Unrecognized values fall back to English.
func SetLanguage(lang string) {
	switch Language(lang) {
	case LangKO:
		current = LangKO
	default:
		current = LangEN
	}
}

// Current returns the active language.
func Current() Language {
	return current
}

// T returns the translated string for the given key. Keys missing from the
// active table fall back to English, then to the key itself.
func T(key string) string {
	if v, ok := tables[current][key]; ok {
		return v
	}
	if v, ok := en[key]; ok {
		return v
	}
	return key
}

// Tf returns a formatted translated string.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}
