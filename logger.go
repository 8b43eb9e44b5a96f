package isoxml

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

type Logger struct {
	*slog.Logger
	output *outputVar
	level  *slog.LevelVar
}

type LoggerOptions struct {
	Output io.Writer

	// AddSource causes the handler to compute the source code position
	// of the log statement and add a SourceKey attribute to the output.
	AddSource bool

	// Level reports the minimum record level that will be logged.
	// If Level is nil, the logger assumes LevelError, so the file trace
	// written at LevelDebug stays silent until asked for.
	Level slog.Leveler

	// ReplaceAttr is called to rewrite each non-group attribute before it is logged.
	ReplaceAttr func(groups []string, a slog.Attr) slog.Attr

	NewHandler func(w io.Writer, opts *slog.HandlerOptions) slog.Handler
}

type outputVar struct {
	io.Writer
}

func (o *outputVar) Write(p []byte) (int, error) {
	return o.Writer.Write(p)
}

func NewLogger(opts *LoggerOptions) *Logger {
	if opts == nil {
		opts = &LoggerOptions{}
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Level == nil {
		opts.Level = slog.LevelError
	}
	if opts.NewHandler == nil {
		opts.NewHandler = func(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
			return slog.NewTextHandler(w, opts)
		}
	}
	level := &slog.LevelVar{}
	output := &outputVar{opts.Output}
	level.Set(opts.Level.Level())
	return &Logger{
		Logger: slog.New(opts.NewHandler(output, &slog.HandlerOptions{
			AddSource:   opts.AddSource,
			Level:       level,
			ReplaceAttr: opts.ReplaceAttr,
		})),
		output: output,
		level:  level,
	}
}

func (l *Logger) Output() io.Writer {
	return l.output.Writer
}

func (l *Logger) SetLevel(level slog.Level) (oldLevel slog.Level) {
	oldLevel = l.level.Level()
	l.level.Set(level)
	return
}

func (l *Logger) Level() slog.Leveler {
	return l.level
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		output: l.output,
		level:  l.level,
	}
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewLogger(nil))
}

// DefaultLogger returns the logger used for the package's diagnostic output.
func DefaultLogger() *Logger {
	return defaultLogger.Load()
}

// SetLogger replaces the package logger. A nil l restores the default.
func SetLogger(l *Logger) {
	if l == nil {
		l = NewLogger(nil)
	}
	defaultLogger.Store(l)
}
