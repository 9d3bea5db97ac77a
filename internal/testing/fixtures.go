package testing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/0xmhha/soldrip/internal/config"
)

// TestConfig creates a valid configuration pointed at url with every delay disabled
func TestConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.URL = url
	cfg.KeysFile = filepath.Join(dir, "privateKeys8.json")
	cfg.SkipLogFile = filepath.Join(dir, "notBalance.txt")
	cfg.OutputDir = filepath.Join(dir, "reports")
	cfg.RetryDelay = 0
	cfg.MinDelay = 0
	cfg.MaxDelay = 0
	cfg.PollInterval = 10 * time.Millisecond
	cfg.ConfirmTimeout = 2 * time.Second
	return cfg
}

// WriteCredentials writes secrets as a JSON array to path
func WriteCredentials(t *testing.T, path string, secrets ...string) {
	t.Helper()
	if secrets == nil {
		secrets = []string{}
	}
	data, err := json.Marshal(secrets)
	if err != nil {
		t.Fatalf("failed to marshal credentials: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write credentials: %v", err)
	}
}

// ReadLines returns the non-empty lines of path, nil when the file does not exist
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
