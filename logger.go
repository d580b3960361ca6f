package auth

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ZeroLogger adapts a zerolog.Logger to the Logger interface.
// Calls accept either printf style arguments or trailing key/value pairs:
//
//	logger.Error("login failed", "identifier", id, "error", err)
type ZeroLogger struct {
	logger zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// NewZeroLogger writes JSON lines to w at the given level name.
// Unknown levels resolve to info.
func NewZeroLogger(w io.Writer, level string) *ZeroLogger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return NewLoggerFrom(zerolog.New(w).Level(lvl).With().Timestamp().Logger())
}

// NewLoggerFrom wraps an existing zerolog logger
func NewLoggerFrom(l zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{logger: l}
}

// Named returns a child logger tagged with name
func (z *ZeroLogger) Named(name string) *ZeroLogger {
	return &ZeroLogger{logger: z.logger.With().Str("logger", name).Logger()}
}

// Zerolog exposes the underlying logger
func (z *ZeroLogger) Zerolog() zerolog.Logger {
	return z.logger
}

func (z *ZeroLogger) Debug(format string, args ...any) {
	write(z.logger.Debug(), format, args)
}

func (z *ZeroLogger) Info(format string, args ...any) {
	write(z.logger.Info(), format, args)
}

func (z *ZeroLogger) Warn(format string, args ...any) {
	write(z.logger.Warn(), format, args)
}

func (z *ZeroLogger) Error(format string, args ...any) {
	write(z.logger.Error(), format, args)
}

// defLogger logs through the zerolog global logger
type defLogger struct{}

func (defLogger) Debug(format string, args ...any) { write(log.Debug(), format, args) }
func (defLogger) Info(format string, args ...any)  { write(log.Info(), format, args) }
func (defLogger) Warn(format string, args ...any)  { write(log.Warn(), format, args) }
func (defLogger) Error(format string, args ...any) { write(log.Error(), format, args) }

// DefaultLogger returns the logger used when none is configured
func DefaultLogger() Logger {
	return defLogger{}
}

func write(evt *zerolog.Event, format string, args []any) {
	if evt == nil {
		return
	}

	verbs := countVerbs(format)
	if verbs > len(args) {
		verbs = len(args)
	}

	msg := format
	if verbs > 0 {
		msg = fmt.Sprintf(format, args[:verbs]...)
	}

	rest := args[verbs:]
	if len(rest) > 0 {
		evt = evt.Fields(keyValues(rest))
	}

	evt.Msg(msg)
}

func keyValues(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("arg%d", i)
		}
		if i+1 >= len(args) {
			fields[key] = nil
			break
		}
		val := args[i+1]
		if err, ok := val.(error); ok {
			val = err.Error()
		}
		fields[key] = val
	}
	return fields
}

func countVerbs(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}
