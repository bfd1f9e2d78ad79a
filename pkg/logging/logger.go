package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level controls which log entries reach the sink.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case label written into each entry.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a configuration string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes component-tagged entries to the shared sink.
// Entries look like: [timestamp] [session] [component] [LEVEL] message
type Logger struct {
	component string
	sink      *sink
}

type sink struct {
	mu      sync.Mutex
	out     *log.Logger
	level   Level
	closer  io.Closer
	logPath string
}

var (
	sessionID     string
	sessionIDOnce sync.Once

	globalMu   sync.RWMutex
	globalSink = &sink{out: log.New(os.Stderr, "", 0), level: LevelWarn}
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// Setup routes every logger to a rotating file under dir.
// The file is dir/hypergx.log and rotates at 25MB keeping 10 backups.
// If dir cannot be created the sink stays on stderr and the error is returned.
func Setup(dir string, level Level) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, "hypergx.log")
	rotator := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	globalMu.Lock()
	defer globalMu.Unlock()

	old := globalSink
	globalSink = &sink{
		out:     log.New(rotator, "", 0),
		level:   level,
		closer:  rotator,
		logPath: logPath,
	}
	if old.closer != nil {
		_ = old.closer.Close()
	}
	return nil
}

// SetOutput points every logger at w. Used by tests and the headless server.
func SetOutput(w io.Writer, level Level) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalSink = &sink{out: log.New(w, "", 0), level: level}
}

// Shutdown flushes and closes the file sink, if any.
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalSink.closer == nil {
		return nil
	}
	err := globalSink.closer.Close()
	globalSink = &sink{out: log.New(os.Stderr, "", 0), level: LevelWarn}
	return err
}

// NewLogger creates a logger for a specific component.
// Loggers resolve the sink on every call so Setup may run after creation.
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// NewWithWriter creates a logger bound to its own writer, independent of Setup.
func NewWithWriter(component string, w io.Writer, level Level) *Logger {
	return &Logger{
		component: component,
		sink:      &sink{out: log.New(w, "", 0), level: level},
	}
}

func (l *Logger) current() *sink {
	if l.sink != nil {
		return l.sink
	}
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalSink
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if l == nil {
		return
	}
	s := l.current()
	if level < s.level {
		return
	}

	message := fmt.Sprintf(format, v...)
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	entry := fmt.Sprintf("[%s] [%s] [%s] [%s] %s", timestamp, shortSession(), l.component, level, message)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Println(entry)
}

func shortSession() string {
	return getSessionID()[:8]
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) { l.write(LevelDebug, format, v...) }

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) { l.write(LevelInfo, format, v...) }

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) { l.write(LevelWarn, format, v...) }

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) { l.write(LevelError, format, v...) }

// Component returns the component tag.
func (l *Logger) Component() string {
	return l.component
}

// SessionID returns the current global session ID
func SessionID() string {
	return getSessionID()
}

// LogPath returns the active log file, or "" when logging to a plain writer.
func LogPath() string {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalSink.logPath
}
