package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelFatal Level = "FATAL"
)

// Logger formats one line per call and routes it by severity: info and
// debug to the out writer, warn, error and fatal to the err writer. Every
// call is emitted, there is no level filtering.
type Logger struct {
	out io.Writer
	err io.Writer
	now func() time.Time
}

func New(out, errOut io.Writer) *Logger {
	return &Logger{
		out: out,
		err: errOut,
		now: time.Now,
	}
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the process-wide logger writing to stdout/stderr.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stdout, os.Stderr)
	})
	return defaultLogger
}

// Each leveled method accepts either a plain string message or any
// structured value followed by an optional label.

func (l *Logger) Debug(v interface{}, label ...string) { l.emit(LevelDebug, l.out, v, label) }
func (l *Logger) Info(v interface{}, label ...string)  { l.emit(LevelInfo, l.out, v, label) }
func (l *Logger) Warn(v interface{}, label ...string)  { l.emit(LevelWarn, l.err, v, label) }
func (l *Logger) Error(v interface{}, label ...string) { l.emit(LevelError, l.err, v, label) }
func (l *Logger) Fatal(v interface{}, label ...string) { l.emit(LevelFatal, l.err, v, label) }

func (l *Logger) emit(level Level, w io.Writer, v interface{}, label []string) {
	ts := l.now().UTC().Format(timeLayout)
	levelName := strings.ToUpper(string(level))

	if msg, ok := v.(string); ok {
		fmt.Fprintf(w, "[%s] %s: %s\n", ts, levelName, msg)
		return
	}

	prefix := ""
	if len(label) > 0 && label[0] != "" {
		prefix = label[0] + " "
	}

	payload, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(w, "[%s] %s: %s<unserializable: %v>\n", ts, levelName, prefix, err)
		return
	}
	fmt.Fprintf(w, "[%s] %s: %s%s\n", ts, levelName, prefix, payload)
}
