package router

import (
	"strings"

	"go.uber.org/zap"
)

// FilteredValue replaces any sensitive parameter value in log output.
const FilteredValue = "[FILTERED]"

// DefaultFilterKeys are the parameter keys redacted from match logs
// unless FilterParams overrides them. Comparison is case-insensitive and
// exact: "password" is filtered, "password_hint" is not.
var DefaultFilterKeys = []string{"password", "passwd", "secret", "token", "api_key"}

// Logger emits the observability event for matched routes. The event
// carries the target identity, the pipeline list and the merged request
// parameters with sensitive keys redacted. It is emitted at the matched
// route's log level and skipped entirely for LogDisabled routes.
type Logger struct {
	log      *zap.Logger
	filtered map[string]struct{}
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// FilterParams replaces the default set of redacted parameter keys.
func FilterParams(keys ...string) LoggerOption {
	return func(l *Logger) {
		l.filtered = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			l.filtered[strings.ToLower(k)] = struct{}{}
		}
	}
}

// NewLogger wraps a zap logger for match logging. A nil zap logger
// yields a no-op Logger.
func NewLogger(log *zap.Logger, opts ...LoggerOption) *Logger {
	if log == nil {
		log = zap.NewNop()
	}

	l := &Logger{log: log}
	FilterParams(DefaultFilterKeys...)(l)

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMatch emits the match event for a route at the route's log level.
// params is the merged path+query parameter map; sensitive keys are
// replaced with FilteredValue.
func (l *Logger) LogMatch(m *Match, params map[string]string) {
	if l == nil || m == nil {
		return
	}

	level := m.Route.logLevel
	if level == LogDisabled {
		return
	}

	plug, opts := m.Route.target.Describe()
	fields := []zap.Field{
		zap.String("verb", m.Route.verb),
		zap.String("route", m.Route.path),
		zap.String("plug", plug),
		zap.Any("plug_opts", opts),
		zap.Strings("pipe_through", m.Route.pipeThrough),
		zap.Any("params", l.redact(params)),
	}

	switch level {
	case LogDebug:
		l.log.Debug("dispatching", fields...)
	case LogInfo:
		l.log.Info("dispatching", fields...)
	case LogWarn:
		l.log.Warn("dispatching", fields...)
	case LogError:
		l.log.Error("dispatching", fields...)
	}
}

func (l *Logger) redact(params map[string]string) map[string]string {
	if len(params) == 0 {
		return nil
	}

	out := make(map[string]string, len(params))
	for k, v := range params {
		if _, sensitive := l.filtered[strings.ToLower(k)]; sensitive {
			out[k] = FilteredValue
		} else {
			out[k] = v
		}
	}
	return out
}
