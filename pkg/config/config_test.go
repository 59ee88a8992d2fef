package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	MenuPath string        `split_words:"true" default:"data/menu.csv"`
	Timeout  time.Duration `split_words:"true" default:"5s"`
	Token    string        `required:"true"`
}

func TestExportEnvironmentKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	content := "SAMPLE_TOKEN=from-file\nSAMPLE_MENU_PATH=fixtures/menu.csv\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("SAMPLE_TOKEN", "from-env")
	t.Setenv("SAMPLE_MENU_PATH", "")
	os.Unsetenv("SAMPLE_MENU_PATH")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}

	conf, err := New[sampleConfig]("SAMPLE")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Token != "from-env" {
		t.Fatalf("Token = %q, want value from process env", conf.Token)
	}
	if conf.MenuPath != "fixtures/menu.csv" {
		t.Fatalf("MenuPath = %q", conf.MenuPath)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v", conf.Timeout)
	}
}

func TestNewRequiredMissing(t *testing.T) {
	t.Setenv("MISSING_TOKEN", "")
	os.Unsetenv("MISSING_TOKEN")

	if _, err := New[sampleConfig]("MISSING"); err == nil {
		t.Fatal("expected error for missing required variable")
	}
}

func TestExportEnvironmentIfExistsIgnoresMissing(t *testing.T) {
	t.Parallel()

	if err := exportEnvironmentIfExists(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("exportEnvironmentIfExists() error = %v", err)
	}
	if err := exportEnvironmentIfExists(t.TempDir()); err != nil {
		t.Fatalf("exportEnvironmentIfExists(dir) error = %v", err)
	}
}
