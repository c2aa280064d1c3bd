package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/draftscript/draftscript/internal/application"
	"github.com/draftscript/draftscript/internal/config"
	"github.com/draftscript/draftscript/internal/envvars"
	"github.com/draftscript/draftscript/internal/host"
	"github.com/draftscript/draftscript/internal/logging"
	"github.com/draftscript/draftscript/internal/scripterr"
)

func main() {
	app := kingpin.New("draftscript", "DraftScript session tool - inspects and manages the add-in runtime inside a host CAD session")
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	appDir := app.Flag("app-dir", "Override the application data directory").String()
	logLevel := app.Flag("log-level", "Console log level (debug|info|warn|error|critical)").String()
	fileLogging := app.Flag("file-logging", "Enable or disable the session log file (on|off)").String()

	envCmd := app.Command("env", "Print the resolved host identity, paths and file prefixes")
	doctorCmd := app.Command("doctor", "Verify the application directories and session log file are writable")
	logsCmd := app.Command("logs", "List session log files for this host version, newest first")

	debugCmd := app.Command("debug", "Set or clear the session debug flag")
	debugState := debugCmd.Arg("state", "on or off").Required().Enum("on", "off")

	verboseCmd := app.Command("verbose", "Set or clear the session verbose flag")
	verboseState := verboseCmd.Arg("state", "on or off").Required().Enum("on", "off")

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	overrides, err := buildOverrides(*configFile, *appDir, *logLevel, *fileLogging)
	if err != nil {
		fatal(err)
	}

	switch command {
	case debugCmd.FullCommand():
		err = runSessionFlag(os.Stdout, envvars.Debug, *debugState == "on")
	case verboseCmd.FullCommand():
		err = runSessionFlag(os.Stdout, envvars.Verbose, *verboseState == "on")
	default:
		var cfg config.Config
		cfg, err = config.Load(overrides)
		if err != nil {
			fatal(err)
		}

		var session *application.Session
		session, err = application.Bootstrap(cfg)
		if err != nil {
			fatal(err)
		}
		defer session.Close()

		switch command {
		case envCmd.FullCommand():
			err = runEnv(os.Stdout, session)
		case doctorCmd.FullCommand():
			err = runDoctor(os.Stdout, session)
		case logsCmd.FullCommand():
			err = runLogs(os.Stdout, session)
		}
	}

	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, scripterr.Render(err))
	os.Exit(1)
}

// buildOverrides maps raw flag values onto config.CLIOverrides. Flags the
// user did not pass stay nil so they never shadow YAML or env settings.
func buildOverrides(configFile, appDir, logLevel, fileLogging string) (*config.CLIOverrides, error) {
	overrides := &config.CLIOverrides{ConfigFile: configFile}

	if appDir != "" {
		overrides.AppDir = &appDir
	}
	if logLevel != "" {
		overrides.LogLevel = &logLevel
	}
	if fileLogging != "" {
		enabled, err := parseOnOff(fileLogging)
		if err != nil {
			return nil, fmt.Errorf("--file-logging: %w", err)
		}
		overrides.FileLogging = &enabled
	}

	return overrides, nil
}

func parseOnOff(raw string) (bool, error) {
	switch raw {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", raw)
	}
	return value, nil
}

func runEnv(w io.Writer, session *application.Session) error {
	info := session.Host
	set := session.Paths

	fmt.Fprintf(w, "addon:            %s %d.%d\n", host.AddonName, host.VersionMajor, host.VersionMinor)
	fmt.Fprintf(w, "host version:     %s\n", info.Version)
	if info.VersionName != "" {
		fmt.Fprintf(w, "host name:        %s\n", info.VersionName)
	}
	if info.Build != "" {
		fmt.Fprintf(w, "host build:       %s\n", info.Build)
	}
	fmt.Fprintf(w, "user:             %s\n", info.User())
	fmt.Fprintf(w, "process:          %s (pid %d)\n", info.ProcName, info.ProcID)
	fmt.Fprintf(w, "first load:       %t\n", session.FirstLoad)
	fmt.Fprintf(w, "root dir:         %s\n", set.Root)
	fmt.Fprintf(w, "version dir:      %s\n", set.VersionDir)
	fmt.Fprintf(w, "universal prefix: %s\n", set.UniversalPrefix)
	fmt.Fprintf(w, "version prefix:   %s\n", set.Prefix)
	fmt.Fprintf(w, "stamped prefix:   %s\n", set.StampedPrefix)
	fmt.Fprintf(w, "session log:      %s\n", set.SessionLogFile())
	fmt.Fprintf(w, "console level:    %s\n", session.Logging.Level())
	fmt.Fprintf(w, "file logging:     %t\n", session.Logging.FileLoggingEnabled())
	return nil
}

func runDoctor(w io.Writer, session *application.Session) error {
	set := session.Paths
	if set.DocMode() {
		fmt.Fprintln(w, "doc mode: nothing to check")
		return nil
	}

	for _, dir := range []string{set.Root, set.VersionDir} {
		stat, err := os.Stat(dir)
		if err != nil {
			return scripterr.IOErrorf(dir, err)
		}
		if !stat.IsDir() {
			return scripterr.Newf("expected a directory at %s", dir)
		}
		fmt.Fprintf(w, "ok: %s\n", dir)
	}

	// probe write access the way the file core will use it
	logPath := set.SessionLogFile()
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return scripterr.IOErrorf(logPath, err)
	}
	if err := file.Close(); err != nil {
		return scripterr.IOErrorf(logPath, err)
	}
	fmt.Fprintf(w, "ok: %s is writable\n", logPath)

	return nil
}

func runLogs(w io.Writer, session *application.Session) error {
	set := session.Paths
	if set.DocMode() {
		return nil
	}

	pattern := filepath.Join(set.VersionDir, host.AddonName+"_*.log")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})

	for _, match := range matches {
		fmt.Fprintln(w, match)
	}
	return nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// runSessionFlag flips a session variable and prints the export line so a
// sourcing shell can mirror the change into the host session environment.
func runSessionFlag(w io.Writer, name string, on bool) error {
	if err := envvars.SetBool(name, on); err != nil {
		return err
	}
	fmt.Fprintf(w, "export %s=%t\n", envvars.Name(name), on)

	level := logging.SessionLevel(logging.DefaultLevel, false)
	fmt.Fprintf(w, "session console level: %s\n", level)
	return nil
}
