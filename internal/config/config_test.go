package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConverterOverride(t *testing.T) {
	t.Setenv(ConverterPathEnv, "  /opt/AAXtoMP3/AAXtoMP3 ")

	cfg := Load()
	if cfg.ConverterPath != "/opt/AAXtoMP3/AAXtoMP3" {
		t.Fatalf("ConverterPath = %q, want trimmed override", cfg.ConverterPath)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(ConverterPathEnv+"=tools/AAXtoMP3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// Registers cleanup for the variable godotenv is about to set.
	t.Setenv(ConverterPathEnv, "")
	os.Unsetenv(ConverterPathEnv)

	cfg := Load()
	if cfg.ConverterPath != "tools/AAXtoMP3" {
		t.Fatalf("ConverterPath = %q, want value from .env", cfg.ConverterPath)
	}
}

func TestLoadEnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(ConverterPathEnv+"=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv(ConverterPathEnv, "from-env")

	if got := Load().ConverterPath; got != "from-env" {
		t.Fatalf("ConverterPath = %q, want %q", got, "from-env")
	}
}
