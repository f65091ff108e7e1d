package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MCP_TRANSPORT", "MCP_HTTP_ADDR", "FIRESTORE_MCP_BACKEND", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if cfg.Transport != TransportStdio || cfg.HTTPAddr != ":3333" || cfg.Backend != BackendFirestore || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("MCP_HTTP_ADDR", ":9000")
	t.Setenv("FIRESTORE_MCP_BACKEND", "memory")
	t.Setenv("LOG_FILE", "/tmp/x.log")

	cfg := FromEnv()
	if cfg.Transport != TransportHTTP || cfg.HTTPAddr != ":9000" || cfg.Backend != BackendMemory || cfg.LogFile != "/tmp/x.log" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cases := []Config{
		{Transport: "grpc", Backend: BackendMemory},
		{Transport: TransportStdio, Backend: "mongo"},
		{Transport: TransportHTTP, Backend: BackendMemory, HTTPAddr: " "},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("expected validation error for %+v", c)
		}
	}
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, ".env"), "FSMCP_TEST_A=from-first\nFSMCP_TEST_B=from-first\n")
	writeFile(t, filepath.Join(second, ".env"), "FSMCP_TEST_B=from-second\nFSMCP_TEST_C=from-second\n")

	t.Setenv("FSMCP_TEST_A", "from-process")
	t.Setenv("FSMCP_TEST_B", "")
	t.Setenv("FSMCP_TEST_C", "")
	os.Unsetenv("FSMCP_TEST_B")
	os.Unsetenv("FSMCP_TEST_C")

	loaded, err := LoadDotEnv(first, second, t.TempDir(), first)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected two files loaded, got %v", loaded)
	}
	if got := os.Getenv("FSMCP_TEST_A"); got != "from-process" {
		t.Fatalf("process value overwritten: %q", got)
	}
	if got := os.Getenv("FSMCP_TEST_B"); got != "from-first" {
		t.Fatalf("earlier file should win: %q", got)
	}
	if got := os.Getenv("FSMCP_TEST_C"); got != "from-second" {
		t.Fatalf("later file not loaded: %q", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
