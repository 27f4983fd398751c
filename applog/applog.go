package applog

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level aliases zapcore.Level so callers configure the logger without
// importing zap directly.
type Level = zapcore.Level

const (
	LevelDebug Level = zapcore.DebugLevel
	LevelInfo  Level = zapcore.InfoLevel
	LevelWarn  Level = zapcore.WarnLevel
	LevelError Level = zapcore.ErrorLevel
)

// ownerWidth right-justifies the owner column so messages line up
// across packages.
const ownerWidth = 44

// logger is the single process-wide instance. One mutex guards
// reconfiguration; zap cores are safe for concurrent writes.
type logger struct {
	mu      sync.Mutex
	level   zap.AtomicLevel
	path    string
	file    *os.File
	zl      *zap.Logger
	labelFn func() string
}

var (
	instance *logger
	once     sync.Once
)

func get() *logger {
	once.Do(func() {
		l := &logger{
			level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
		}
		l.zl = zap.New(l.consoleCore())
		instance = l
	})
	return instance
}

func encoderConfig(colored bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		ConsoleSeparator: " ",
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration:   zapcore.StringDurationEncoder,
	}
	if colored {
		cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			zapcore.CapitalColorLevelEncoder(l, wrapBrackets{enc})
		}
	} else {
		cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(fmt.Sprintf("%-7s", "["+l.CapitalString()+"]"))
		}
	}
	return cfg
}

// wrapBrackets surrounds the color-encoded level tag with brackets.
type wrapBrackets struct {
	zapcore.PrimitiveArrayEncoder
}

func (w wrapBrackets) AppendString(s string) {
	w.PrimitiveArrayEncoder.AppendString("[" + s + "]")
}

// consoleCore splits output: errors to stderr, everything else to
// stdout.
func (l *logger) consoleCore() zapcore.Core {
	enc := zapcore.NewConsoleEncoder(encoderConfig(true))
	errs := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return l.level.Enabled(lvl) && lvl >= zapcore.ErrorLevel
	})
	rest := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return l.level.Enabled(lvl) && lvl < zapcore.ErrorLevel
	})
	return zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), rest),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), errs),
	)
}

// fileCore appends plain (uncolored) lines to the configured file.
// *os.File writes are unbuffered, so each record reaches the OS before
// the call returns.
func (l *logger) fileCore(f *os.File) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(encoderConfig(false))
	return zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(f)), l.level)
}

// SetLevel sets the minimum level. Records below it are dropped before
// formatting.
func SetLevel(level Level) {
	get().level.SetLevel(level)
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	return get().level.Level()
}

// SetFile redirects output to the file at path, opened in append mode.
// An empty path returns output to the console.
func SetFile(path string) error {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if path == "" {
		l.path = ""
		l.zl = zap.New(l.consoleCore())
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	l.path = path
	l.file = f
	l.zl = zap.New(l.fileCore(f))
	return nil
}

// SetLabelFunc installs the function used to label the calling
// goroutine in the owner column. The app package installs its
// goroutine-name lookup here; a nil fn clears the label.
func SetLabelFunc(fn func() string) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.labelFn = fn
}

// SetCore replaces the output core, for tests capturing records with
// zaptest/observer. A nil core restores console output.
func SetCore(core zapcore.Core) {
	l := get()
	l.mu.Lock()
	defer l.mu.Unlock()
	if core == nil {
		if l.file != nil {
			l.zl = zap.New(l.fileCore(l.file))
		} else {
			l.zl = zap.New(l.consoleCore())
		}
		return
	}
	l.zl = zap.New(core)
}

func logf(lvl Level, owner, format string, args ...any) {
	l := get()
	if !l.level.Enabled(lvl) {
		return
	}

	l.mu.Lock()
	zl := l.zl
	labelFn := l.labelFn
	l.mu.Unlock()

	if labelFn != nil {
		owner = owner + " @" + labelFn()
	}
	line := fmt.Sprintf("%*s |: %s", ownerWidth, owner, fmt.Sprintf(format, args...))
	if ce := zl.Check(lvl, line); ce != nil {
		ce.Write()
	}
}

// Debugf logs at debug level. owner tags the component emitting the
// record.
func Debugf(owner, format string, args ...any) {
	logf(LevelDebug, owner, format, args...)
}

// Infof logs at info level.
func Infof(owner, format string, args ...any) {
	logf(LevelInfo, owner, format, args...)
}

// Warnf logs at warn level.
func Warnf(owner, format string, args ...any) {
	logf(LevelWarn, owner, format, args...)
}

// Errorf logs at error level.
func Errorf(owner, format string, args ...any) {
	logf(LevelError, owner, format, args...)
}

// ParseLevel converts a config string to a Level.
func ParseLevel(s string) (Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo, err
	}
	return lvl, nil
}
