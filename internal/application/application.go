package application

import (
	"io"

	"go.uber.org/zap"

	"github.com/draftscript/draftscript/internal/config"
	"github.com/draftscript/draftscript/internal/host"
	"github.com/draftscript/draftscript/internal/logging"
	"github.com/draftscript/draftscript/internal/paths"
	"github.com/draftscript/draftscript/internal/scripterr"
)

// Session is the bootstrapped runtime for one script execution: the resolved
// host identity, the executor parameters, the path conventions, and the
// shared logging setup.
type Session struct {
	Host    host.Info
	Exec    host.ExecParams
	Paths   paths.Set
	Logging *logging.Setup

	// FirstLoad is true when the add-in is loading at host startup rather
	// than re-executing inside an established session.
	FirstLoad bool
}

// Option adjusts Bootstrap behaviour.
type Option func(*bootstrapConfig)

// WithConsole overrides the console output surface (primarily for tests and
// for the host bridge, which hands over its output window writer).
func WithConsole(w io.Writer) Option {
	return func(cfg *bootstrapConfig) {
		cfg.console = w
	}
}

type bootstrapConfig struct {
	console io.Writer
}

// Bootstrap wires the runtime in initialization order: executor parameters,
// then host identity, then path conventions (created on disk unless in doc
// mode), then the logging setup whose file names and session level derive
// from all of the above.
func Bootstrap(cfg config.Config, opts ...Option) (*Session, error) {
	var bc bootstrapConfig
	for _, opt := range opts {
		opt(&bc)
	}

	exec := host.ReadExecParams()

	info, err := host.Detect()
	if err != nil {
		return nil, err
	}

	set := paths.Resolve(info, exec.DocMode, cfg.AppDir)
	if err := set.Ensure(); err != nil {
		return nil, scripterr.Wrap(err, "bootstrap failed")
	}

	base, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	setup := logging.NewSetup(logging.Options{
		ConsoleLevel: logging.SessionLevel(base, exec.ForcedDebug),
		Console:      bc.console,
		FilePath:     set.SessionLogFile(),
		MaxSizeMB:    cfg.LogMaxSizeMB,
		MaxBackups:   cfg.LogMaxBackups,
		FloodRate:    cfg.FloodRate,
		FloodBurst:   cfg.FloodBurst,
		DocMode:      exec.DocMode,
	})
	setup.SetFileLogging(cfg.FileLogging && !exec.DocMode)

	return &Session{
		Host:      info,
		Exec:      exec,
		Paths:     set,
		Logging:   setup,
		FirstLoad: exec.FirstLoad(),
	}, nil
}

// Logger returns the named logger from the session registry.
func (s *Session) Logger(name string) *zap.Logger {
	return s.Logging.GetLogger(name)
}

// Close flushes buffered log records.
func (s *Session) Close() error {
	return s.Logging.Sync()
}
