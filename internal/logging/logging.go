// Package logging builds the logrus logger shared by every command.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formats understood by New.
const (
	FormatPlain   = "plain"
	FormatVerbose = "verbose"
	FormatJSON    = "json"
)

// Environment variables tuning log file rotation.
const (
	EnvMaxSize    = "GITPROJECT_LOG_MAX_SIZE"
	EnvMaxBackups = "GITPROJECT_LOG_MAX_BACKUPS"
	EnvMaxAge     = "GITPROJECT_LOG_MAX_AGE"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Options select the logger's destination and format.
type Options struct {
	Level  string // defaults to info
	Debug  bool   // forces the debug level
	Format string
	Syslog bool
	File   string
	Output io.Writer // defaults to stderr
}

// New builds a logger. The returned closer releases the log file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	formatter, err := newFormatter(opts.Format)
	if err != nil {
		return nil, nil, err
	}
	logger.SetFormatter(formatter)

	level := logrus.InfoLevel
	if opts.Level != "" {
		level, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	if opts.Debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := newRotatingFile(opts.File, os.Getenv)
		out = io.MultiWriter(out, file)
		closer = file
	}
	logger.SetOutput(out)

	if opts.Syslog {
		hook, err := newSyslogHook()
		if err != nil {
			_ = closer.Close()
			return nil, nil, fmt.Errorf("failed to connect to syslog: %w", err)
		}
		logger.AddHook(hook)
	}

	logger.Debugf("logging at %s level in %s format", level, formatName(opts.Format))
	return logger, closer, nil
}

func formatName(format string) string {
	if format == "" {
		return FormatPlain
	}
	return format
}

func newFormatter(format string) (logrus.Formatter, error) {
	switch formatName(format) {
	case FormatPlain:
		return &PlainFormatter{}, nil
	case FormatVerbose:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat}, nil
	case FormatJSON:
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}, nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// newRotatingFile creates a lumberjack logger sized from the environment.
func newRotatingFile(path string, getenv func(string) string) *lumberjack.Logger {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}

	if n, err := strconv.Atoi(getenv(EnvMaxSize)); err == nil && n > 0 {
		file.MaxSize = n
	}
	if n, err := strconv.Atoi(getenv(EnvMaxBackups)); err == nil && n >= 0 {
		file.MaxBackups = n
	}
	if n, err := strconv.Atoi(getenv(EnvMaxAge)); err == nil && n > 0 {
		file.MaxAge = n
	}
	return file
}

// PlainFormatter prints the message followed by its fields. Warnings and
// errors are prefixed with their level.
type PlainFormatter struct{}

func (f *PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		b.WriteString("error: ")
	case logrus.WarnLevel:
		b.WriteString("warning: ")
	}
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := fmt.Sprint(entry.Data[key])
		if strings.ContainsAny(value, " \t\"") {
			value = strconv.Quote(value)
		}
		fmt.Fprintf(&b, " %s=%s", key, value)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
