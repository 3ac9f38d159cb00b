package core

// Logger is any leveled logging service.
// Implementations may interpret trailing args as errors, key/value maps or an
// acting account to attach to the report.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
