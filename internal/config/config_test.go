package config

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTHORIZED_EMAILS", "user@example.com, @example.org")
	t.Setenv("AGENT_BASE_URL", "https://agent.example.com/serving-endpoints/triage")
	t.Setenv("AGENT_API_KEY", "secret-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default http port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.StorageBackend != StorageBackendFile {
		t.Errorf("expected file backend, got %q", cfg.StorageBackend)
	}
	if cfg.DefaultPatientAge != 35 || cfg.DefaultPatientGender != "Male" {
		t.Errorf("unexpected patient defaults: %d %q", cfg.DefaultPatientAge, cfg.DefaultPatientGender)
	}
	if cfg.AgentTimeout.Seconds() != 120 {
		t.Errorf("expected 120s agent timeout, got %v", cfg.AgentTimeout)
	}

	if GetGlobal() != cfg {
		t.Error("Load must publish the global config")
	}
}

func TestAllowListParsing(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	entries := cfg.AllowList()
	if len(entries) != 2 || entries[0] != "user@example.com" || entries[1] != "@example.org" {
		t.Errorf("unexpected allow list: %v", entries)
	}
}

func TestLoadRejectsMissingEmails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTHORIZED_EMAILS", " , ")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an effectively empty allow list")
	}
}

func TestLoadRejectsBadAgentURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AGENT_BASE_URL", "not a url")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a malformed agent url")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unsupported backend")
	}
}
