// Package types defines the logging collaborator consumed by strategies
package types

// Logger is the logging interface strategies write to. Strategies log at
// the point of detection only; wrapping layers do not re-log.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards all log output. It is the default logger for every
// strategy.
type NopLogger struct{}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() Logger {
	return &NopLogger{}
}

func (l *NopLogger) Debugf(format string, args ...interface{}) {}
func (l *NopLogger) Infof(format string, args ...interface{})  {}
func (l *NopLogger) Warnf(format string, args ...interface{})  {}
func (l *NopLogger) Errorf(format string, args ...interface{}) {}
