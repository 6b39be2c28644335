// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"fmt"
	"sync"
)

// Logger records log entries instead of printing them.
type Logger struct {
	mu      sync.Mutex
	Entries []string
}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, fmt.Sprintf("%s: %s", level, msg))
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.record("DEBUG", msg) }
func (l *Logger) Info(msg string, args ...interface{})  { l.record("INFO", msg) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.record("WARN", msg) }
func (l *Logger) Error(msg string, args ...interface{}) { l.record("ERROR", msg) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.record("FATAL", msg) }

func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Entries)
}
