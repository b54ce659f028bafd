package daemonconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreSane(t *testing.T) {
	s := Defaults()

	if s.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", s.Host)
	}
	if s.Port != 7878 {
		t.Errorf("Port = %d, want 7878", s.Port)
	}
	if s.LongMS != 200 || s.GapMS != 500 {
		t.Errorf("LongMS/GapMS = %d/%d, want 200/500", s.LongMS, s.GapMS)
	}
	if filepath.Base(s.ConfigPath) != ".horsetab.conf" {
		t.Errorf("ConfigPath = %q, want a .horsetab.conf path", s.ConfigPath)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load returned error for a missing file: %v", err)
	}
	if s.Port != Defaults().Port {
		t.Errorf("Port = %d, want default %d", s.Port, Defaults().Port)
	}
}

func TestLoadOverridesFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "horsetab.yaml")
	yaml := "host: 0.0.0.0\nport: 9000\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", s.Host)
	}
	if s.Port != 9000 {
		t.Errorf("Port = %d, want 9000", s.Port)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", s.LogLevel)
	}
	// Fields untouched by the file keep their defaults.
	if s.GapMS != Defaults().GapMS {
		t.Errorf("GapMS = %d, want default %d", s.GapMS, Defaults().GapMS)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "horsetab.yaml")
	if err := os.WriteFile(path, []byte("host: [unterminated"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load with malformed YAML: want error, got nil")
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "horsetab.yaml")
	if err := os.WriteFile(path, []byte("port: 9000\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("HORSETAB_PORT", "9191")
	t.Setenv("HORSETAB_HOST", "192.168.1.1")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Port != 9191 {
		t.Errorf("Port = %d, want env override 9191", s.Port)
	}
	if s.Host != "192.168.1.1" {
		t.Errorf("Host = %q, want env override 192.168.1.1", s.Host)
	}
}

func TestApplyEnvOverridesIgnoresMalformedPort(t *testing.T) {
	s := Defaults()
	t.Setenv("HORSETAB_PORT", "not-a-number")

	applyEnvOverrides(&s)

	if s.Port != Defaults().Port {
		t.Errorf("Port = %d, want unchanged default %d after malformed override", s.Port, Defaults().Port)
	}
}
