package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/draftscript/draftscript/internal/application"
	"github.com/draftscript/draftscript/internal/config"
	"github.com/draftscript/draftscript/internal/envvars"
	"github.com/draftscript/draftscript/internal/host"
)

func newTestSession(t *testing.T) *application.Session {
	t.Helper()
	t.Setenv(host.EnvHostVersion, "2026")
	t.Setenv(host.EnvHostUsername, "jane.doe@example.com")
	t.Setenv(host.EnvWindow, "")
	t.Setenv(host.EnvForcedDebug, "")
	t.Setenv(host.EnvDocMode, "")
	t.Setenv(envvars.Name(envvars.Debug), "")
	t.Setenv(envvars.Name(envvars.Verbose), "")

	session, err := application.Bootstrap(config.Config{
		AppDir:       t.TempDir(),
		LogMaxSizeMB: 1,
	})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestBuildOverrides(t *testing.T) {
	t.Parallel()

	overrides, err := buildOverrides("/etc/ds/config.yaml", "", "debug", "on")
	if err != nil {
		t.Fatalf("buildOverrides returned error: %v", err)
	}

	if overrides.ConfigFile != "/etc/ds/config.yaml" {
		t.Fatalf("unexpected config file: %q", overrides.ConfigFile)
	}
	if overrides.AppDir != nil {
		t.Fatalf("expected nil app dir override when flag is empty")
	}
	if overrides.LogLevel == nil || *overrides.LogLevel != "debug" {
		t.Fatalf("unexpected log level override: %v", overrides.LogLevel)
	}
	if overrides.FileLogging == nil || !*overrides.FileLogging {
		t.Fatalf("expected file logging override to be true")
	}

	if _, err := buildOverrides("", "", "", "sideways"); err == nil {
		t.Fatalf("expected error for invalid file-logging value")
	}
}

func TestParseOnOff(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{"on": true, "off": false, "true": true, "false": false}
	for input, want := range cases {
		got, err := parseOnOff(input)
		if err != nil {
			t.Fatalf("parseOnOff(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("parseOnOff(%q): expected %t, got %t", input, want, got)
		}
	}

	if _, err := parseOnOff("maybe"); err == nil {
		t.Fatalf("expected error for unparseable value")
	}
}

func TestRunEnv(t *testing.T) {
	session := newTestSession(t)

	var out bytes.Buffer
	if err := runEnv(&out, session); err != nil {
		t.Fatalf("runEnv returned error: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"host version:     2026",
		"user:             janedoe",
		"stamped prefix:   DraftScript_2026_janedoe_",
		"first load:       true",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("expected %q in report:\n%s", want, report)
		}
	}
}

func TestRunDoctor(t *testing.T) {
	session := newTestSession(t)

	var out bytes.Buffer
	if err := runDoctor(&out, session); err != nil {
		t.Fatalf("runDoctor returned error: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, session.Paths.VersionDir) {
		t.Fatalf("expected version dir check in report:\n%s", report)
	}
	if !strings.Contains(report, "is writable") {
		t.Fatalf("expected log file writability check in report:\n%s", report)
	}
	if _, err := os.Stat(session.Paths.SessionLogFile()); err != nil {
		t.Fatalf("expected doctor to have probed the log file: %v", err)
	}
}

func TestRunLogs(t *testing.T) {
	session := newTestSession(t)

	stale := filepath.Join(session.Paths.VersionDir, "DraftScript_2026_janedoe_1111.log")
	if err := os.WriteFile(stale, []byte("old session\n"), 0o644); err != nil {
		t.Fatalf("failed to plant old session log: %v", err)
	}

	var out bytes.Buffer
	if err := runLogs(&out, session); err != nil {
		t.Fatalf("runLogs returned error: %v", err)
	}

	if !strings.Contains(out.String(), stale) {
		t.Fatalf("expected planted session log in listing:\n%s", out.String())
	}
}

func TestRunSessionFlag(t *testing.T) {
	t.Setenv(envvars.Name(envvars.Debug), "")
	t.Setenv(envvars.Name(envvars.Verbose), "")

	var out bytes.Buffer
	if err := runSessionFlag(&out, envvars.Debug, true); err != nil {
		t.Fatalf("runSessionFlag returned error: %v", err)
	}

	if !envvars.GetBool(envvars.Debug) {
		t.Fatalf("expected session debug flag to be set")
	}
	if !strings.Contains(out.String(), "export DRAFTSCRIPT_DEBUG_ISC=true") {
		t.Fatalf("expected export line, got %q", out.String())
	}
	if !strings.Contains(out.String(), "debug") {
		t.Fatalf("expected resulting level in output, got %q", out.String())
	}
}
