package log

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"os"
	"sync"
	"time"
)

var logger zerolog.Logger
var once sync.Once

type LoggerOption func(*LoggerConfig)

type LoggerConfig struct {
	fileName string
	console  bool
	logLevel zerolog.Level
	writers  []io.Writer
}

// WithFileLogger writes logs to a size-rotated file.
func WithFileLogger(fileName string) LoggerOption {
	return func(l *LoggerConfig) {
		l.fileName = fileName
	}
}

func WithConsoleLogger() LoggerOption {
	return func(l *LoggerConfig) {
		l.console = true
	}
}

// WithLogLevel sets the level by name ("debug", "info", ...). Unknown names keep the default.
func WithLogLevel(level string) LoggerOption {
	return func(l *LoggerConfig) {
		if lvl, err := zerolog.ParseLevel(level); err == nil && level != "" {
			l.logLevel = lvl
		}
	}
}

func WithWriter(w io.Writer) LoggerOption {
	return func(l *LoggerConfig) {
		l.writers = append(l.writers, w)
	}
}

// Init builds the process-wide logger. Only the first call has any effect.
func Init(serviceName string, opts ...LoggerOption) {
	once.Do(func() {
		logger = New(serviceName, opts...)
	})
}

// New builds a standalone logger with the same layout Init uses.
func New(serviceName string, opts ...LoggerOption) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := &LoggerConfig{logLevel: zerolog.InfoLevel}

	for _, opt := range opts {
		opt(l)
	}

	output := make([]io.Writer, 0, 2+len(l.writers))
	defaultOutput := os.Stdout
	if l.console {
		consoleOutput := zerolog.ConsoleWriter{
			Out:        defaultOutput,
			TimeFormat: time.RFC3339,
		}
		output = append(output, consoleOutput)
	}
	if l.fileName != "" {
		fileOutput := &lumberjack.Logger{
			Filename:   l.fileName,
			MaxSize:    5,
			MaxBackups: 10,
			MaxAge:     14,
			Compress:   true,
		}
		output = append(output, fileOutput)
	}
	output = append(output, l.writers...)

	if len(output) == 0 {
		output = append(output, defaultOutput)
	}

	multiWriter := zerolog.MultiLevelWriter(output...)

	return zerolog.New(multiWriter).
		Level(l.logLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func GetLogger() zerolog.Logger {
	return logger
}
