package varsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type envUpstream struct{}

func (envUpstream) Lookup(_ context.Context, name string) (string, error) {
	if value := os.Getenv(name); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("environment variable %s is empty or unset", name)
}

type fileUpstream struct{}

func (fileUpstream) Lookup(_ context.Context, path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
