package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/draftscript/draftscript/internal/host"
	"github.com/draftscript/draftscript/internal/scripterr"
)

func sampleInfo() host.Info {
	return host.Info{
		Version:  "2026",
		Username: "jane.doe@example.com",
		ProcID:   4242,
	}
}

func TestResolvePrefixes(t *testing.T) {
	t.Parallel()

	set := Resolve(sampleInfo(), false, "/tmp/ds-root")

	if set.Root != "/tmp/ds-root" {
		t.Fatalf("unexpected root: %q", set.Root)
	}
	if set.VersionDir != filepath.Join("/tmp/ds-root", "2026") {
		t.Fatalf("unexpected version dir: %q", set.VersionDir)
	}
	if set.UniversalPrefix != "DraftScript_janedoe" {
		t.Fatalf("unexpected universal prefix: %q", set.UniversalPrefix)
	}
	if set.Prefix != "DraftScript_2026_janedoe" {
		t.Fatalf("unexpected prefix: %q", set.Prefix)
	}
	if set.StampedPrefix != "DraftScript_2026_janedoe_4242" {
		t.Fatalf("unexpected stamped prefix: %q", set.StampedPrefix)
	}
}

func TestResolveOverridePrecedence(t *testing.T) {
	t.Setenv(EnvAppDir, "/tmp/from-env")

	set := Resolve(sampleInfo(), false, "/tmp/from-arg")
	if set.Root != "/tmp/from-arg" {
		t.Fatalf("expected explicit override to win, got %q", set.Root)
	}

	set = Resolve(sampleInfo(), false, "")
	if set.Root != "/tmp/from-env" {
		t.Fatalf("expected env override, got %q", set.Root)
	}
}

func TestResolveDocModeIsInert(t *testing.T) {
	t.Parallel()

	set := Resolve(sampleInfo(), true, "/tmp/should-not-matter")

	if !set.DocMode() {
		t.Fatalf("expected doc mode set")
	}
	if set.Root != "" || set.VersionDir != "" || set.StampedPrefix != "" {
		t.Fatalf("expected blank paths in doc mode: %+v", set)
	}
	if set.SessionLogFile() != "" || set.DataFile("x") != "" || set.TempFile("x") != "" {
		t.Fatalf("expected blank derived paths in doc mode")
	}
	if err := set.Ensure(); err != nil {
		t.Fatalf("expected Ensure to be a no-op in doc mode: %v", err)
	}
}

func TestEnsureCreatesDirectories(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "appdata")
	set := Resolve(sampleInfo(), false, root)

	if err := set.Ensure(); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if _, err := os.Stat(set.VersionDir); err != nil {
		t.Fatalf("expected version dir to exist: %v", err)
	}

	// idempotent
	if err := set.Ensure(); err != nil {
		t.Fatalf("expected repeated Ensure to succeed: %v", err)
	}
}

func TestEnsureSurfacesIOError(t *testing.T) {
	t.Parallel()

	// A regular file where the root dir should be forces MkdirAll to fail.
	parent := t.TempDir()
	blocker := filepath.Join(parent, "occupied")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to plant blocker file: %v", err)
	}

	set := Resolve(sampleInfo(), false, blocker)
	err := set.Ensure()
	if err == nil {
		t.Fatalf("expected error when root path is a file")
	}
	if !scripterr.IsIOError(err) {
		t.Fatalf("expected a domain IO error, got %v", err)
	}
	if !strings.Contains(err.Error(), blocker) {
		t.Fatalf("expected failed path in message, got %q", err.Error())
	}
}

func TestDerivedFilePaths(t *testing.T) {
	t.Parallel()

	set := Resolve(sampleInfo(), false, "/tmp/ds-root")

	if got := set.SessionLogFile(); got != filepath.Join(set.VersionDir, "DraftScript_2026_janedoe_4242.log") {
		t.Fatalf("unexpected session log file: %q", got)
	}
	if got := set.DataFile("cache.json"); got != filepath.Join(set.VersionDir, "DraftScript_2026_janedoe_cache.json") {
		t.Fatalf("unexpected data file: %q", got)
	}
	if got := set.UserDataFile("settings.yaml"); got != filepath.Join(set.Root, "DraftScript_janedoe_settings.yaml") {
		t.Fatalf("unexpected user data file: %q", got)
	}
	if got := set.TempFile("scratch.tmp"); !strings.HasSuffix(got, "DraftScript_2026_janedoe_4242_scratch.tmp") {
		t.Fatalf("unexpected temp file: %q", got)
	}
}
