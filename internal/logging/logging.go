package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/draftscript/draftscript/internal/envvars"
)

// DefaultLevel is the session console level absent any override.
const DefaultLevel = zapcore.WarnLevel

// FileLevel is the level of the session log file. The file always records
// everything so that a session can be reconstructed after the fact, whatever
// the console was showing at the time.
const FileLevel = zapcore.DebugLevel

// Options configures the session logging setup.
type Options struct {
	// ConsoleLevel is the initial console level, normally the output of
	// SessionLevel.
	ConsoleLevel zapcore.Level

	// Console is the host output surface. Stdout when nil.
	Console io.Writer

	// FilePath is the session log file. Empty disables the file core
	// entirely; a non-empty path still opens nothing until file logging is
	// switched on.
	FilePath string

	// MaxSizeMB and MaxBackups cap the session log file so a runaway script
	// cannot fill the version directory.
	MaxSizeMB  int
	MaxBackups int

	// FloodRate and FloodBurst bound records per second on the console.
	// A rate of zero disables the guard.
	FloodRate  float64
	FloodBurst int

	// DocMode builds a console-only setup that writes no session state.
	DocMode bool
}

// Setup owns the session's shared logging state: the two cores, the console
// level every registered logger observes, and the name-keyed logger registry.
type Setup struct {
	mu      sync.Mutex
	loggers map[string]*zap.Logger

	core         zapcore.Core
	consoleLevel zap.AtomicLevel
	defaultLevel zapcore.Level
	fileEnabled  *atomic.Bool
	dropped      *atomic.Int64
	filePath     string
	docMode      bool
}

// NewSetup builds the session logging state from opts.
func NewSetup(opts Options) *Setup {
	consoleOut := opts.Console
	if consoleOut == nil {
		consoleOut = os.Stdout
	}

	level := zap.NewAtomicLevelAt(opts.ConsoleLevel)
	dropped := &atomic.Int64{}

	var console zapcore.Core = zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(consoleOut)),
		level,
	)
	if opts.FloodRate > 0 {
		burst := opts.FloodBurst
		if burst < 1 {
			burst = 1
		}
		console = &floodGuardCore{
			Core:    console,
			limiter: rate.NewLimiter(rate.Limit(opts.FloodRate), burst),
			dropped: dropped,
		}
	}

	fileEnabled := &atomic.Bool{}
	core := console
	if !opts.DocMode && opts.FilePath != "" {
		writer := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig()),
			zapcore.AddSync(writer),
			FileLevel,
		)
		core = zapcore.NewTee(console, &toggleCore{Core: fileCore, enabled: fileEnabled})
	}

	return &Setup{
		loggers:      make(map[string]*zap.Logger),
		core:         core,
		consoleLevel: level,
		defaultLevel: opts.ConsoleLevel,
		fileEnabled:  fileEnabled,
		dropped:      dropped,
		filePath:     opts.FilePath,
		docMode:      opts.DocMode,
	}
}

// GetLogger returns the named logger, creating and memoizing it on first
// use. All loggers share the setup's cores and console level, so a level
// change made through any of them is observed by all.
func (s *Setup) GetLogger(name string) *zap.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if logger, ok := s.loggers[name]; ok {
		return logger
	}
	logger := zap.New(s.core).Named(name)
	s.loggers[name] = logger
	return logger
}

// Level returns the current shared console level.
func (s *Setup) Level() zapcore.Level {
	return s.consoleLevel.Level()
}

// SetLevel sets the shared console level without touching session variables.
func (s *Setup) SetLevel(level zapcore.Level) {
	s.consoleLevel.SetLevel(level)
}

// SetDebugMode raises the console to debug and records the choice in the
// session environment so later script executions start at the same level.
func (s *Setup) SetDebugMode() error {
	if err := s.setSessionFlags(false, true); err != nil {
		return err
	}
	s.consoleLevel.SetLevel(zapcore.DebugLevel)
	return nil
}

// SetVerboseMode raises the console to info and records the choice in the
// session environment.
func (s *Setup) SetVerboseMode() error {
	if err := s.setSessionFlags(true, false); err != nil {
		return err
	}
	s.consoleLevel.SetLevel(zapcore.InfoLevel)
	return nil
}

// ResetLevel clears the session flags and restores the level the setup was
// built with.
func (s *Setup) ResetLevel() error {
	if err := s.setSessionFlags(false, false); err != nil {
		return err
	}
	s.consoleLevel.SetLevel(s.defaultLevel)
	return nil
}

func (s *Setup) setSessionFlags(verbose, debug bool) error {
	if s.docMode {
		return nil
	}
	if err := envvars.SetBool(envvars.Verbose, verbose); err != nil {
		return err
	}
	return envvars.SetBool(envvars.Debug, debug)
}

// SetFileLogging switches the session log file on or off. The file is opened
// lazily on the first record written after enabling.
func (s *Setup) SetFileLogging(enabled bool) {
	s.fileEnabled.Store(enabled)
}

// FileLoggingEnabled reports whether the file core currently accepts records.
func (s *Setup) FileLoggingEnabled() bool {
	return s.fileEnabled.Load()
}

// LogFilePath returns the session log file path; empty when the file core is
// not configured.
func (s *Setup) LogFilePath() string {
	return s.filePath
}

// DroppedRecords returns how many console records the flood guard discarded.
func (s *Setup) DroppedRecords() int64 {
	return s.dropped.Load()
}

// Sync flushes buffered records on every core.
func (s *Setup) Sync() error {
	return s.core.Sync()
}

// SessionLevel resolves the console level for this session: base, raised to
// info by the verbose session variable, raised to debug by the debug session
// variable or the executor's forced-debug flag. Forced debug wins over
// everything.
func SessionLevel(base zapcore.Level, forcedDebug bool) zapcore.Level {
	level := base
	if envvars.GetBool(envvars.Verbose) && level > zapcore.InfoLevel {
		level = zapcore.InfoLevel
	}
	if envvars.GetBool(envvars.Debug) || forcedDebug {
		level = zapcore.DebugLevel
	}
	return level
}

// ParseLevel maps a configuration string to a console level. The empty
// string means DefaultLevel.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "verbose":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "critical", "fatal":
		return zapcore.FatalLevel, nil
	default:
		return DefaultLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// consoleEncoderConfig renders records for the host output window:
// LEVEL [name] message, with the level tag colored per severity. The window
// timestamps records itself, so none are emitted here.
func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeName = bracketNameEncoder
	return cfg
}

// fileEncoderConfig renders records for the session log file as JSON with
// ISO8601 timestamps.
func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.StacktraceKey = "stacktrace"
	return cfg
}

func bracketNameEncoder(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + name + "]")
}
