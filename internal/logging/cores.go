package logging

import (
	"sync/atomic"

	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// toggleCore gates an inner core behind a shared atomic switch. The file core
// sits behind one of these so that no log file is opened, or even named to
// the OS, until file logging is switched on.
type toggleCore struct {
	zapcore.Core
	enabled *atomic.Bool
}

func (c *toggleCore) Enabled(level zapcore.Level) bool {
	return c.enabled.Load() && c.Core.Enabled(level)
}

func (c *toggleCore) With(fields []zapcore.Field) zapcore.Core {
	return &toggleCore{Core: c.Core.With(fields), enabled: c.enabled}
}

func (c *toggleCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// floodGuardCore drops records beyond a token-bucket rate. The host output
// window renders every record it receives; a script logging in a tight loop
// can otherwise freeze the host UI. Dropped records are counted, never
// queued.
type floodGuardCore struct {
	zapcore.Core
	limiter *rate.Limiter
	dropped *atomic.Int64
}

func (c *floodGuardCore) With(fields []zapcore.Field) zapcore.Core {
	return &floodGuardCore{Core: c.Core.With(fields), limiter: c.limiter, dropped: c.dropped}
}

func (c *floodGuardCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Core.Enabled(ent.Level) {
		return ce
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.dropped.Add(1)
		return ce
	}
	return ce.AddCore(ent, c)
}
