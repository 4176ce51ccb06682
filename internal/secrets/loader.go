package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when a secret has neither a value nor a file.
var ErrNotConfigured = errors.New("secret is not configured")

// Source is a secret given inline (an environment variable) or as a file
// path, as container secret mounts provide it. File wins when both are set.
type Source struct {
	Name  string
	Value string
	File  string
}

func (s Source) Load() (string, error) {
	name := s.Name
	if name == "" {
		name = "secret"
	}

	path := strings.TrimSpace(s.File)
	if path == "" {
		if secret := strings.TrimSpace(s.Value); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s: %w", name, ErrNotConfigured)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from %s: %w", name, path, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s: file %s is empty", name, path)
	}

	return secret, nil
}
