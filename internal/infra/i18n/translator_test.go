//go:build !integration

package i18n

import (
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: Namaste\nwelcome_user: 'Namaste %s'"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "Namaste" {
			t.Errorf("wanted 'Namaste', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted 'nonexistent_key', got '%s'", got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got := translator.T("welcome_user", "Arjuna"); got != "Namaste Arjuna" {
			t.Errorf("wanted 'Namaste Arjuna', got '%s'", got)
		}
	})
}

func TestNewTranslator_FromFS(t *testing.T) {
	fsys := fstest.MapFS{"locales/xx.yaml": {Data: []byte("k: v")}}
	tr, err := NewTranslator(fsys, "xx")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	if tr.T("k") != "v" {
		t.Errorf("got %q", tr.T("k"))
	}
	if _, err := NewTranslator(fsys, "missing"); err == nil {
		t.Error("expected error for missing locale")
	}
}

// Every key the bot renders must exist in the shipped locale.
func TestEmbeddedLocale_HasAllKeys(t *testing.T) {
	tr, err := NewTranslator(LocalesFS, DefaultLang)
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	keys := []string{
		"welcome_message", "help_message", "usage_verse", "usage_daily",
		"error_invalid_order", "error_invalid_time", "error_invalid_verse", "error_verse_fetch",
		"error_generic", "error_rate_limited", "error_unknown_command",
		"audio_caption", "audio_unavailable",
		"verse_heading_original", "verse_heading_transliteration", "verse_heading_translation",
		"verse_heading_commentary", "verse_heading_word_meanings",
		"daily_created", "daily_replaced", "daily_delete_failed", "daily_create_failed", "daily_internal_error",
	}
	for _, k := range keys {
		if !tr.Has(k) {
			t.Errorf("locale %s is missing key %q", DefaultLang, k)
		}
	}
}
