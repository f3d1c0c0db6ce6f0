package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig points HOME at a temp dir holding the given config file.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if content == "" {
		return
	}
	dir := filepath.Join(home, ".socialgraph")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func clearDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	for _, k := range []string{"RANK_DAMPING", "RANK_MAX_ITERATIONS", "RANK_TOLERANCE", "RECOMMEND_ALPHA", "RECOMMEND_BETA"} {
		t.Setenv(k, "")
	}
}

func TestResolveConfig_FlagWins(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env@localhost/db")
	writeConfig(t, "sqlite_path: /tmp/file.db\n")

	flags := &globalFlags{sqlitePath: "/tmp/flag.db"}
	if err := resolveConfig(flags); err != nil {
		t.Fatal(err)
	}

	if flags.sqlitePath != "/tmp/flag.db" || flags.databaseURL != "" {
		t.Errorf("flags = %+v, want only the flag path", flags)
	}
}

func TestResolveConfig_EnvBeforeFile(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env@localhost/db")
	writeConfig(t, "sqlite_path: /tmp/file.db\n")

	flags := &globalFlags{}
	if err := resolveConfig(flags); err != nil {
		t.Fatal(err)
	}

	if flags.databaseURL != "postgres://env@localhost/db" || flags.sqlitePath != "" {
		t.Errorf("flags = %+v, want env database", flags)
	}
	if flags.logLevel != "warn" {
		t.Errorf("logLevel = %q, want warn default", flags.logLevel)
	}
}

func TestResolveConfig_Profiles(t *testing.T) {
	clearDBEnv(t)
	writeConfig(t, `
sqlite_path: /tmp/flat.db
log_level: debug
active_profile: staging
profiles:
  staging:
    database_url: postgres://staging@localhost/sg
  local:
    sqlite_path: /tmp/local.db
`)

	flags := &globalFlags{}
	if err := resolveConfig(flags); err != nil {
		t.Fatal(err)
	}
	if flags.databaseURL != "postgres://staging@localhost/sg" {
		t.Errorf("active profile not used: %+v", flags)
	}
	if flags.logLevel != "debug" {
		t.Errorf("profile should inherit flat log level, got %q", flags.logLevel)
	}

	flags = &globalFlags{profile: "local"}
	if err := resolveConfig(flags); err != nil {
		t.Fatal(err)
	}
	if flags.sqlitePath != "/tmp/local.db" {
		t.Errorf("named profile not used: %+v", flags)
	}

	flags = &globalFlags{profile: "missing"}
	if err := resolveConfig(flags); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestResolveConfig_NoFile(t *testing.T) {
	clearDBEnv(t)
	writeConfig(t, "")

	flags := &globalFlags{}
	if err := resolveConfig(flags); err != nil {
		t.Fatalf("missing config file must not fail: %v", err)
	}
}

func TestResolveConfig_BadYAML(t *testing.T) {
	clearDBEnv(t)
	writeConfig(t, "profiles: [unclosed\n")

	if err := resolveConfig(&globalFlags{}); err == nil {
		t.Error("expected parse error")
	}
}
