// Package logger writes the viewer's log to logs/viewer.txt through zap and keeps
// the formatted lines in memory for the debug overlay and tests.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath is the log file, relative to the working directory.
const LogFilePath = "logs/viewer.txt"

// MaxLines is how many of the most recent lines stay in memory.
const MaxLines = 1000

// Logger keeps the last MaxLines entries in memory and, when it has a file,
// appends every entry there too.
type Logger struct {
	mu    sync.Mutex
	lines []string

	zap  *zap.Logger
	file *os.File
}

// New returns a logger that writes entries at level and above to path, creating its
// directory. An empty path keeps entries in memory only.
func New(path string, level zapcore.Level) (*Logger, error) {
	l := &Logger{lines: make([]string, 0)}
	sinks := []zapcore.WriteSyncer{zapcore.AddSync(memorySink{l})}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		sinks = append(sinks, zapcore.AddSync(f))
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	enc.EncodeCaller = nil
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.NewMultiWriteSyncer(sinks...), level)
	l.zap = zap.New(core)
	return l, nil
}

// NewMemory returns a debug-level logger with no file.
func NewMemory() *Logger {
	l, _ := New("", zapcore.DebugLevel)
	return l
}

// Zap is the underlying logger, for packages that take a *zap.Logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// Log records one info line.
func (l *Logger) Log(line string) { l.zap.Info(line) }

func (l *Logger) Debugf(format string, args ...any) { l.zap.Sugar().Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.zap.Sugar().Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.zap.Sugar().Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.zap.Sugar().Errorf(format, args...) }

// Lines returns a copy of the lines held in memory, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	lines := l.lines
	if len(lines) > MaxLines {
		lines = lines[len(lines)-MaxLines:]
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// Tail returns up to the last n lines.
func (l *Logger) Tail(n int) []string {
	lines := l.Lines()
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.zap.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

type memorySink struct{ l *Logger }

func (m memorySink) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	m.l.mu.Lock()
	m.l.lines = append(m.l.lines, line)
	// trim in batches so each write stays cheap
	if n := len(m.l.lines); n >= 2*MaxLines {
		m.l.lines = append(m.l.lines[:0], m.l.lines[n-MaxLines:]...)
	}
	m.l.mu.Unlock()
	return len(p), nil
}
