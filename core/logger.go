package core

// Logger is implemented by the application loggers.
// args may carry errors, extra data maps and the session user the log entry relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// LogUser identifies the authenticated user a log entry relates to.
type LogUser struct {
	ID       string
	Username string
	Email    string
}
