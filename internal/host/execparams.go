package host

import (
	"os"
	"strconv"
	"strings"
)

// Executor environment variables. The host's script executor sets these per
// execution; all of them are optional and absent values degrade to zero
// values rather than errors.
const (
	EnvEngineVersion = "DRAFTSCRIPT_ENGINE_VERSION"
	EnvForcedDebug   = "DRAFTSCRIPT_FORCED_DEBUG"
	EnvWindow        = "DRAFTSCRIPT_WINDOW"
	EnvCommandName   = "DRAFTSCRIPT_COMMAND_NAME"
	EnvCommandPath   = "DRAFTSCRIPT_COMMAND_PATH"
	EnvDocMode       = "DRAFTSCRIPT_DOC_MODE"
)

// ExecParams carries the per-execution values the host's script executor
// injects: which engine build is running the script, whether the user forced
// debug output (modifier-click on the command button), the output window
// token, and the command being executed.
type ExecParams struct {
	EngineVersion string
	ForcedDebug   bool
	WindowHandle  string
	CommandName   string
	CommandPath   string

	// DocMode is set when the module is loaded for documentation generation;
	// it suppresses every filesystem side effect.
	DocMode bool
}

// ReadExecParams resolves ExecParams from the executor environment.
func ReadExecParams() ExecParams {
	return ExecParams{
		EngineVersion: strings.TrimSpace(os.Getenv(EnvEngineVersion)),
		ForcedDebug:   envBool(EnvForcedDebug),
		WindowHandle:  strings.TrimSpace(os.Getenv(EnvWindow)),
		CommandName:   strings.TrimSpace(os.Getenv(EnvCommandName)),
		CommandPath:   strings.TrimSpace(os.Getenv(EnvCommandPath)),
		DocMode:       envBool(EnvDocMode),
	}
}

// FirstLoad reports whether the add-in is loading at host startup. When the
// executor has not handed over an output window yet, this is the first load
// of the session rather than a re-execution.
func (p ExecParams) FirstLoad() bool {
	return p.WindowHandle == ""
}

// CommandMode reports whether this execution runs a named command.
func (p ExecParams) CommandMode() bool {
	return p.CommandName != ""
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	return err == nil && v
}
