package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultLogDir  = "~/.local/share/summon/logs"
	DefaultLogFile = "summon.log"
)

type Logger struct {
	zlog    zerolog.Logger
	level   zerolog.Level
	file    *os.File
	writers []io.Writer
	mu      sync.RWMutex
}

type Option func(*Logger) error

// WithConsole enables colored console logging on stderr
func WithConsole() Option {
	return func(l *Logger) error {
		l.writers = append(l.writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		return nil
	}
}

// WithLevel sets the logging level
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) error {
		l.level = level
		return nil
	}
}

// WithFile adds file logging at an explicit path. An empty path selects
// the default log location.
func WithFile(path string) Option {
	return func(l *Logger) error {
		if path == "" {
			p, err := DefaultLogPath()
			if err != nil {
				return err
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		l.writers = append(l.writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		return nil
	}
}

// WithWriter sends plain JSON log lines to w
func WithWriter(w io.Writer) Option {
	return func(l *Logger) error {
		l.writers = append(l.writers, w)
		return nil
	}
}

// DefaultLogPath returns the expanded default log path
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	logDir := strings.Replace(DefaultLogDir, "~", homeDir, 1)
	return filepath.Join(logDir, DefaultLogFile), nil
}

// NewLogger creates a new logger with the given options. Without any
// output option it logs to the console.
func NewLogger(opts ...Option) (*Logger, error) {
	logger := &Logger{level: zerolog.InfoLevel}

	for _, opt := range opts {
		if err := opt(logger); err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to apply logger option: %w", err)
		}
	}

	if len(logger.writers) == 0 {
		_ = WithConsole()(logger)
	}
	logger.rebuild()

	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop(), level: zerolog.Disabled}
}

func (l *Logger) rebuild() {
	var out io.Writer
	if len(l.writers) == 1 {
		out = l.writers[0]
	} else {
		out = zerolog.MultiLevelWriter(l.writers...)
	}
	l.zlog = zerolog.New(out).Level(l.level).With().Timestamp().Logger()
}

// Close closes the logger and any open files
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) logger() *zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &l.zlog
}

// emit writes one event tagged with the file and line of the caller of the
// level method.
func (l *Logger) emit(event *zerolog.Event, msg string, err error, fields []interface{}) {
	if event == nil {
		return
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		event = event.Str("file", filepath.Base(file)).Int("line", line)
	}
	if err != nil {
		event = event.Err(err)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			event = event.Interface(key, fields[i+1])
		}
	}
	event.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.emit(l.logger().Debug(), msg, nil, fields)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.emit(l.logger().Info(), msg, nil, fields)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.emit(l.logger().Warn(), msg, nil, fields)
}

// Error logs msg with err attached. err may be nil.
func (l *Logger) Error(msg string, err error, fields ...interface{}) {
	l.emit(l.logger().Error(), msg, err, fields)
}
