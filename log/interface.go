package log

import "io"

const (
	LevelPanic = iota
	LevelFatal
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Logger is what the trainer and the CLI log through.
type Logger interface {
	Debug(format string, v ...interface{})

	Info(format string, v ...interface{})

	Warn(format string, v ...interface{})

	Error(format string, v ...interface{})

	// With returns a logger that tags every entry with key=value.
	With(key string, value interface{}) Logger

	SetLevel(level string)

	GetLevel() int

	SetOutput(out io.Writer)
}

// Nop discards everything. Handy in tests.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{}) {}
func (Nop) Warn(string, ...interface{}) {}
func (Nop) Error(string, ...interface{}) {}
func (n Nop) With(string, interface{}) Logger { return n }
func (Nop) SetLevel(string) {}
func (Nop) GetLevel() int { return LevelPanic }
func (Nop) SetOutput(io.Writer) {}
