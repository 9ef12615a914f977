//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// LogLevel is the engine's own log verbosity (otc_log_level).
type LogLevel int32

const (
	LogDisabled LogLevel = 0
	LogFatal    LogLevel = 2
	LogError    LogLevel = 3
	LogWarn     LogLevel = 4
	LogInfo     LogLevel = 5
	LogDebug    LogLevel = 6
	LogMsg      LogLevel = 7
	LogTrace    LogLevel = 8
	LogAll      LogLevel = 100
)

var logLevelNames = map[LogLevel]string{
	LogDisabled: "disabled",
	LogFatal:    "fatal",
	LogError:    "error",
	LogWarn:     "warn",
	LogInfo:     "info",
	LogDebug:    "debug",
	LogMsg:      "msg",
	LogTrace:    "trace",
	LogAll:      "all",
}

func (l LogLevel) String() string {
	if s, ok := logLevelNames[l]; ok {
		return s
	}
	return "unknown"
}

// ParseLogLevel accepts the names returned by LogLevel.String or a numeric
// engine level.
func ParseLogLevel(s string) (LogLevel, bool) {
	for l, name := range logLevelNames {
		if name == s {
			return l, true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return LogLevel(n), true
	}
	return LogDisabled, false
}

// UnmarshalText lets LogLevel be used directly in YAML config.
func (l *LogLevel) UnmarshalText(b []byte) error {
	v, ok := ParseLogLevel(string(b))
	if !ok {
		return &Error{Kind: KindInvalidParam, Op: "log level " + string(b)}
	}
	*l = v
	return nil
}

// SetLogLevel changes the engine's log verbosity.
func (c *Context) SetLogLevel(level LogLevel) {
	c.engine.LogEnable(int32(level))
	c.log.WithFields(logrus.Fields{
		"function": "SetLogLevel",
		"level":    level.String(),
	}).Debug("engine log level changed")
}

// AddLogCallback registers fn to receive every engine log line. The engine
// logger is installed on the first call if forwarding was not configured.
func (c *Context) AddLogCallback(fn func(message string)) {
	if fn == nil {
		return
	}
	c.logMu.Lock()
	c.logCallbacks = append(c.logCallbacks, fn)
	install := !c.loggerOn
	c.loggerOn = true
	c.logMu.Unlock()
	if install {
		c.engine.SetLogger(true)
	}
}

// engineLog fans an engine log line out. Runs on an engine thread.
func (c *Context) engineLog(message string) {
	c.logMu.Lock()
	callbacks := c.logCallbacks
	forward := c.forwardLogs
	c.logMu.Unlock()

	if forward {
		c.log.WithField("source", "libopentok").Debug(message)
	}
	for _, fn := range callbacks {
		fn(message)
	}
}
