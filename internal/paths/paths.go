package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/draftscript/draftscript/internal/host"
	"github.com/draftscript/draftscript/internal/scripterr"
)

// EnvAppDir overrides the platform default application data directory.
const EnvAppDir = "DRAFTSCRIPT_APP_DIR"

// Set is the resolved directory layout and file-name prefixes for one
// session. All fields are blank in doc mode, where nothing may touch disk.
type Set struct {
	// Root is the per-user application data directory.
	Root string

	// VersionDir is the per-host-version directory under Root. Session logs
	// and version-scoped data files live here.
	VersionDir string

	// UniversalPrefix names files shared across host versions:
	// DraftScript_<user>.
	UniversalPrefix string

	// Prefix names files scoped to one host version:
	// DraftScript_<version>_<user>.
	Prefix string

	// StampedPrefix additionally carries the host process id, so files named
	// with it never collide across concurrent host sessions:
	// DraftScript_<version>_<user>_<pid>.
	StampedPrefix string

	docMode bool
}

// Resolve computes the path conventions for the given host identity.
// override, when non-empty, takes precedence over the EnvAppDir variable and
// the platform default. In doc mode the returned Set is inert.
func Resolve(info host.Info, docMode bool, override string) Set {
	if docMode {
		return Set{docMode: true}
	}

	root := strings.TrimSpace(override)
	if root == "" {
		root = strings.TrimSpace(os.Getenv(EnvAppDir))
	}
	if root == "" {
		root = defaultRoot()
	}

	user := info.User()
	return Set{
		Root:            root,
		VersionDir:      filepath.Join(root, info.Version),
		UniversalPrefix: fmt.Sprintf("%s_%s", host.AddonName, user),
		Prefix:          fmt.Sprintf("%s_%s_%s", host.AddonName, info.Version, user),
		StampedPrefix:   fmt.Sprintf("%s_%s_%s_%d", host.AddonName, info.Version, user, info.ProcID),
	}
}

// DocMode reports whether this Set was resolved in doc mode.
func (s Set) DocMode() bool {
	return s.docMode
}

// Ensure creates the root and version directories. It is idempotent; a
// creation failure surfaces as a domain IO error naming the failed path.
// In doc mode Ensure does nothing.
func (s Set) Ensure() error {
	if s.docMode {
		return nil
	}
	for _, dir := range []string{s.Root, s.VersionDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return scripterr.IOErrorf(dir, err)
		}
	}
	return nil
}

// SessionLogFile returns the log file path for this session:
// <version dir>/<stamped prefix>.log.
func (s Set) SessionLogFile() string {
	if s.docMode {
		return ""
	}
	return filepath.Join(s.VersionDir, s.StampedPrefix+".log")
}

// DataFile returns a version-scoped data file path inside the version dir.
func (s Set) DataFile(name string) string {
	if s.docMode {
		return ""
	}
	return filepath.Join(s.VersionDir, s.Prefix+"_"+name)
}

// UserDataFile returns a version-independent data file path inside the root.
func (s Set) UserDataFile(name string) string {
	if s.docMode {
		return ""
	}
	return filepath.Join(s.Root, s.UniversalPrefix+"_"+name)
}

// TempFile returns a session-stamped file path under the OS temp dir.
func (s Set) TempFile(name string) string {
	if s.docMode {
		return ""
	}
	return filepath.Join(os.TempDir(), s.StampedPrefix+"_"+name)
}

// defaultRoot returns the per-user application data directory for the
// platform:
//   - Windows: %APPDATA%\DraftScript
//   - macOS:   ~/Library/Application Support/DraftScript
//   - Linux:   $XDG_DATA_HOME/draftscript or ~/.local/share/draftscript
func defaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, host.AddonName)
		}
		return filepath.Join(home, "AppData", "Roaming", host.AddonName)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", host.AddonName)
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, strings.ToLower(host.AddonName))
		}
		return filepath.Join(home, ".local", "share", strings.ToLower(host.AddonName))
	}
}
