package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecret(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gemini_api_key")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	return path
}

func TestLoadPrefersFile(t *testing.T) {
	path := writeSecret(t, "  from-file\n")

	got, err := Source{Name: "GEMINI_API_KEY", Value: "inline", File: path}.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file secret, got %q", got)
	}
}

func TestLoadInlineValue(t *testing.T) {
	got, err := Source{Value: " inline ", File: "   "}.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Source{Name: "GEMINI_API_KEY"}.Load()
	if !errors.Is(err, ErrNotConfigured) || !strings.HasPrefix(err.Error(), "GEMINI_API_KEY:") {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := (Source{File: writeSecret(t, "\n")}).Load(); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := (Source{Value: "inline", File: filepath.Join(t.TempDir(), "missing")}).Load(); err == nil {
		t.Fatalf("a missing file must not fall back to the inline value")
	}
}
