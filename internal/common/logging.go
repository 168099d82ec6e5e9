// Package common provides the logger shared by every fam-mcp component.
package common

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const (
	logTimeFormat     = "2006-01-02T15:04:05Z07:00"
	defaultLogFile    = "logs/fam-mcp.log"
	defaultMaxSize    = 500 * 1024
	defaultMaxBackups = 20
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// textWriter renders arbor's JSON events as "message key=value ..." lines.
type textWriter struct {
	out   io.Writer
	level log.Level
}

func (w *textWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return w.out.Write(p)
	}
	if evt.Level < w.level {
		return len(p), nil
	}
	return io.WriteString(w.out, formatEvent(evt))
}

func (w *textWriter) WithLevel(level log.Level) writers.IWriter {
	w.level = level
	return w
}

func (w *textWriter) GetFilePath() string { return "" }
func (w *textWriter) Close() error        { return nil }

// formatEvent orders fields by key so output is stable.
func formatEvent(evt models.LogEvent) string {
	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(evt.Message)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(toText(evt.Fields[k]))
	}
	if evt.Error != "" {
		b.WriteString(" error=")
		b.WriteString(evt.Error)
	}
	b.WriteByte('\n')
	return b.String()
}

func toText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return string(raw)
}

// NewLogger creates a console (stderr) logger with the specified level.
func NewLogger(level string) *Logger {
	return NewLoggerFromConfig(LoggingConfig{Level: level})
}

// NewLoggerFromConfig creates a logger configured from LoggingConfig.
// Console output always goes to stderr: on the stdio transport stdout carries
// the protocol stream.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(consoleWriterConfig())
		case "file":
			l = l.WithFileWriter(fileWriterConfig(cfg))
		}
	}

	l = l.WithMemoryWriter(models.WriterConfiguration{
		Type: models.LogWriterTypeMemory,
	}).WithLevelFromString(level)

	return &Logger{ILogger: l}
}

func consoleWriterConfig() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		Writer:     os.Stderr,
		TimeFormat: logTimeFormat,
	}
}

func fileWriterConfig(cfg LoggingConfig) models.WriterConfiguration {
	wc := models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   cfg.FilePath,
		MaxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		MaxBackups: cfg.MaxBackups,
		TimeFormat: logTimeFormat,
	}
	if wc.FileName == "" {
		wc.FileName = defaultLogFile
	}
	if wc.MaxSize <= 0 {
		wc.MaxSize = defaultMaxSize
	}
	if wc.MaxBackups <= 0 {
		wc.MaxBackups = defaultMaxBackups
	}
	return wc
}

// NewLoggerWithOutput creates a logger writing plain text lines to w.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	l := arbor.NewLogger().
		WithWriters([]writers.IWriter{&textWriter{out: w, level: log.TraceLevel}}).
		WithLevelFromString(level)
	return &Logger{ILogger: l}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})}
}

// WithCorrelationId returns a new Logger with a correlation ID set.
// The dispatcher uses it to trace one tool call through every layer.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
