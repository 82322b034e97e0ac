package logging

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Format selects how log events are written.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

type Options struct {
	Level  string
	Format Format
	Color  bool
}

// New builds a logger writing to w. An empty level means info and an empty
// format means console.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), errors.Errorf("parsing log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var out io.Writer
	switch opts.Format {
	case FormatJSON:
		out = w
	case FormatConsole, "":
		out = zerolog.ConsoleWriter{Out: w, NoColor: !opts.Color, PartsExclude: []string{zerolog.TimestampFieldName}}
	default:
		return zerolog.Nop(), errors.Errorf("unknown log format %q, want %s or %s", opts.Format, FormatConsole, FormatJSON)
	}

	return zerolog.New(out).
		Level(level).
		Hook(TimeHook{}).
		Hook(CallerHook{WithColor: opts.Color}), nil
}

// WithLogger attaches a logger built from opts to ctx.
func WithLogger(ctx context.Context, w io.Writer, opts Options) (context.Context, error) {
	logger, err := New(w, opts)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx), nil
}

// TimeHook stamps events with millisecond precision and no zone.
type TimeHook struct {
	Format string
}

func (t TimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	layout := t.Format
	if layout == "" {
		layout = "2006-01-02T15:04:05.000"
	}
	e.Str("time", time.Now().Format(layout))
}

// CallerHook adds the package, file and line of the logging call site.
type CallerHook struct {
	WithColor bool
}

// hook frames: Run, Event.msg hook loop, Event.Msg
const callerSkip = 3

func (c CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(callerSkip)
	if !ok {
		return
	}
	pkg := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		pkg, _ = SplitFuncName(fn.Name())
	}
	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

// SplitFuncName splits a fully qualified function name into its package
// path and the function or method name.
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}
	firstDot := strings.IndexByte(name[lastSlash:], '.')
	if firstDot < 0 {
		return name, ""
	}
	firstDot += lastSlash

	return name[:firstDot], name[firstDot+1:]
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		file = path[idx+1:]
	}
	if colorize {
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep,
			color.New(color.Bold).Sprint(file), sep,
			color.New(color.FgHiRed, color.Bold).Sprintf("%d", line))
	}
	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}
