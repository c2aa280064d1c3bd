package host

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/draftscript/draftscript/internal/scripterr"
)

const (
	// AddonName names the add-in in directory names, file prefixes and the
	// bridge environment variable namespace.
	AddonName = "DraftScript"

	VersionMajor = 4
	VersionMinor = 2
)

// Bridge environment variables set by the host-side loader before it invokes
// anything in this module. They carry the identity of the hosting CAD
// application into each script execution.
const (
	EnvHostVersion     = "DRAFTSCRIPT_HOST_VERSION"
	EnvHostVersionName = "DRAFTSCRIPT_HOST_VERSION_NAME"
	EnvHostBuild       = "DRAFTSCRIPT_HOST_BUILD"
	EnvHostUsername    = "DRAFTSCRIPT_HOST_USERNAME"
)

// Info identifies the host application session: which version of the CAD
// program is running, as which user, in which process.
type Info struct {
	Version     string
	VersionName string
	Build       string
	Username    string
	ProcID      int
	ProcName    string
}

// Detect resolves the host identity from the bridge environment. The host
// version is mandatory; without it the add-in cannot derive version-scoped
// paths and the session cannot proceed.
func Detect() (Info, error) {
	version := strings.TrimSpace(os.Getenv(EnvHostVersion))
	if version == "" {
		return Info{}, scripterr.Newf(
			"critical error: host software is not supported (%s is not set)", EnvHostVersion)
	}

	username := strings.TrimSpace(os.Getenv(EnvHostUsername))
	if username == "" {
		username = fallbackUsername()
	}

	return Info{
		Version:     version,
		VersionName: strings.TrimSpace(os.Getenv(EnvHostVersionName)),
		Build:       strings.TrimSpace(os.Getenv(EnvHostBuild)),
		Username:    username,
		ProcID:      os.Getpid(),
		ProcName:    procName(),
	}, nil
}

// User returns the username sanitized for use in file names: the part before
// any "@" (email logins) with dots removed.
func (i Info) User() string {
	name, _, _ := strings.Cut(i.Username, "@")
	return strings.ReplaceAll(name, ".", "")
}

// IsNewerThan reports whether the host version is strictly greater than
// version. Host versions are numeric by convention; anything else is an error.
func (i Info) IsNewerThan(version string) (bool, error) {
	mine, theirs, err := versionPair(i.Version, version)
	if err != nil {
		return false, err
	}
	return mine > theirs, nil
}

// IsOlderThan reports whether the host version is strictly less than version.
func (i Info) IsOlderThan(version string) (bool, error) {
	mine, theirs, err := versionPair(i.Version, version)
	if err != nil {
		return false, err
	}
	return mine < theirs, nil
}

func versionPair(mine, theirs string) (int, int, error) {
	m, err := strconv.Atoi(strings.TrimSpace(mine))
	if err != nil {
		return 0, 0, scripterr.Wrapf(err, "host version %q is not numeric", mine)
	}
	t, err := strconv.Atoi(strings.TrimSpace(theirs))
	if err != nil {
		return 0, 0, scripterr.Wrapf(err, "version %q is not numeric", theirs)
	}
	return m, t, nil
}

func fallbackUsername() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("USERNAME")
}

func procName() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
}
