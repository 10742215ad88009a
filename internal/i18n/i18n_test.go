package i18n

import "testing"

func TestT_English(t *testing.T) {
	SetLanguage("en")

	if got := T("resetting"); got != "resetting" {
		t.Errorf("T(resetting) = %q, want %q", got, "resetting")
	}
	if got := T("window_end"); got != "Next reset" {
		t.Errorf("T(window_end) = %q, want %q", got, "Next reset")
	}
}

func TestT_Korean(t *testing.T) {
	SetLanguage("ko")
	defer SetLanguage("en")

	if Current() != LangKO {
		t.Fatalf("Current() = %q, want %q", Current(), LangKO)
	}
	if got := T("resetting"); got != "리셋중" {
		t.Errorf("T(resetting) = %q, want %q", got, "리셋중")
	}
}

func TestT_MissingKey(t *testing.T) {
	SetLanguage("en")
	if got := T("nonexistent_key"); got != "nonexistent_key" {
		t.Errorf("T(nonexistent_key) = %q, want %q", got, "nonexistent_key")
	}
}

func TestTf(t *testing.T) {
	SetLanguage("en")
	got := Tf("added", 1000, 500)
	want := "Added - Input: 1000, Output: 500"
	if got != want {
		t.Errorf("Tf(added, 1000, 500) = %q, want %q", got, want)
	}
}

func TestSetLanguage_Unknown(t *testing.T) {
	SetLanguage("fr")
	if Current() != LangEN {
		t.Errorf("unknown language should default to EN, got %q", Current())
	}
}

func TestTables_SameKeys(t *testing.T) {
	for key := range en {
		if _, ok := ko[key]; !ok {
			t.Errorf("ko table missing key %q", key)
		}
	}
	for key := range ko {
		if _, ok := en[key]; !ok {
			t.Errorf("ko table has extra key %q", key)
		}
	}
}
