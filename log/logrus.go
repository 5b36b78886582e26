package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type LoggerImpl struct {
	mu     sync.Mutex
	l      *logrus.Logger
	fields logrus.Fields
}

var DefaultLogger *LoggerImpl
var defaultLoggerInit sync.Once

func New() *LoggerImpl {
	l := &LoggerImpl{
		l: logrus.New(),
	}
	l.l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel("info")
	defaultLoggerInit.Do(func() {
		DefaultLogger = l
	})
	return l
}

// decorate attaches the caller position, trimmed to the last three path
// elements, plus any fields set through With.
func (l *LoggerImpl) decorate(skip int) *logrus.Entry {
	entry := logrus.NewEntry(l.l).WithFields(l.fields)
	if _, file, line, ok := runtime.Caller(skip); ok {
		path := strings.Split(file, string(os.PathSeparator))
		if len(path) > 3 {
			path = path[len(path)-3:]
		}
		entry = entry.WithField("position", fmt.Sprintf("%s:%d", strings.Join(path, string(os.PathSeparator)), line))
	}
	return entry
}

func (l *LoggerImpl) Debug(format string, v ...interface{}) {
	l.decorate(2).Debugf(format, v...)
}

func (l *LoggerImpl) Info(format string, v ...interface{}) {
	l.decorate(2).Infof(format, v...)
}

func (l *LoggerImpl) Warn(format string, v ...interface{}) {
	l.decorate(2).Warnf(format, v...)
}

func (l *LoggerImpl) Error(format string, v ...interface{}) {
	l.decorate(2).Errorf(format, v...)
}

func (l *LoggerImpl) With(key string, value interface{}) Logger {
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &LoggerImpl{l: l.l, fields: fields}
}

func (l *LoggerImpl) setLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.SetLevel(logrus.Level(level))
}

func (l *LoggerImpl) SetLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		l.setLevel(LevelTrace)
	case "debug":
		l.setLevel(LevelDebug)
	case "warn":
		l.setLevel(LevelWarn)
	case "error":
		l.setLevel(LevelError)
	default:
		l.setLevel(LevelInfo)
	}
}

func (l *LoggerImpl) GetLevel() int {
	return int(l.l.GetLevel())
}

func (l *LoggerImpl) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.l.SetOutput(out)
}
