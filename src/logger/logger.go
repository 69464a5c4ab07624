package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name  string
	sugar *zap.SugaredLogger
}

type levelSource interface {
	GetLogLevel() string
}

type fileSource interface {
	GetLogFile() string
}

var (
	rootMu   sync.Mutex
	root     *zap.Logger
	rootFile string
	level    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance.
// config may be nil; when it exposes a log level or log file the shared core is reconfigured.
func NewLogger(config interface{}, name string) *Logger {
	if src, ok := config.(levelSource); ok && src.GetLogLevel() != "" {
		level.SetLevel(ParseLevel(src.GetLogLevel()))
	}

	file := ""
	if src, ok := config.(fileSource); ok {
		file = src.GetLogFile()
	}

	return &Logger{
		name:  name,
		sugar: rootLogger(file).Named(name).Sugar(),
	}
}

// -----------------------------------------------------------------------------

// ParseLevel maps the config level names onto zap levels
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARNING", "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "CRITICAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// -----------------------------------------------------------------------------

func rootLogger(file string) *zap.Logger {
	rootMu.Lock()
	defer rootMu.Unlock()

	if root != nil && (file == "" || file == rootFile) {
		return root
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encCfg)

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel && level.Enabled(lvl)
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel && level.Enabled(lvl)
	})

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), highPriority),
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), lowPriority),
	}

	if file != "" {
		rotating := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    20, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			LocalTime:  true,
		})
		prodCfg := zap.NewProductionEncoderConfig()
		prodCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(prodCfg), rotating, level))
		rootFile = file
	}

	root = zap.New(zapcore.NewTee(cores...))
	return root
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// -----------------------------------------------------------------------------

func (l *Logger) Warning(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// -----------------------------------------------------------------------------

// Name returns the logger's component name
func (l *Logger) Name() string {
	return l.name
}

// -----------------------------------------------------------------------------

// Sync flushes buffered entries
func Sync() {
	rootMu.Lock()
	defer rootMu.Unlock()
	if root != nil {
		_ = root.Sync()
	}
}
