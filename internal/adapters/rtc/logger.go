package rtc

import (
	"fmt"

	"github.com/pion/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// loggerFactory routes pion's internal logging into zerolog. pion is chatty,
// so its levels are shifted one step down except for errors.
type loggerFactory struct {
	level zerolog.Level
}

func newLoggerFactory(level zerolog.Level) logging.LoggerFactory {
	return loggerFactory{level: level}
}

func (f loggerFactory) NewLogger(scope string) logging.LeveledLogger {
	l := log.With().Str("module", "pion").Str("scope", scope).Logger().Level(f.level)
	return &leveledLogger{l: l}
}

type leveledLogger struct {
	l zerolog.Logger
}

func (p *leveledLogger) Trace(msg string)                  { p.l.Trace().Msg(msg) }
func (p *leveledLogger) Tracef(format string, args ...any) { p.l.Trace().Msg(fmt.Sprintf(format, args...)) }
func (p *leveledLogger) Debug(msg string)                  { p.l.Trace().Msg(msg) }
func (p *leveledLogger) Debugf(format string, args ...any) { p.l.Trace().Msg(fmt.Sprintf(format, args...)) }
func (p *leveledLogger) Info(msg string)                   { p.l.Debug().Msg(msg) }
func (p *leveledLogger) Infof(format string, args ...any)  { p.l.Debug().Msg(fmt.Sprintf(format, args...)) }
func (p *leveledLogger) Warn(msg string)                   { p.l.Warn().Msg(msg) }
func (p *leveledLogger) Warnf(format string, args ...any)  { p.l.Warn().Msg(fmt.Sprintf(format, args...)) }
func (p *leveledLogger) Error(msg string)                  { p.l.Error().Msg(msg) }
func (p *leveledLogger) Errorf(format string, args ...any) { p.l.Error().Msg(fmt.Sprintf(format, args...)) }
