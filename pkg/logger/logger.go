package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// Logger is the logging surface the connection layer and the CLI write to.
// args are alternating key/value pairs, as in log/slog.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

type LogBuild struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

type LogData struct {
	writer  io.Writer
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel parses a zerolog level name; unknown names keep the current level.
func (build *LogBuild) WithLevel(level string) *LogBuild {
	if l, err := zerolog.ParseLevel(level); err == nil && level != "" {
		build.level = l
	}
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	logData.writer = os.Stderr
	if build.writer != nil {
		logData.writer = build.writer
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.writer = zerolog.SyncWriter(logData.LogFile)
	}
	logData.Logger = zerolog.New(logData.writer).Level(build.level).With().Timestamp().Logger()
	return
}

// Close releases the log file opened by FromPath, if any.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}

// Adapter returns logData.Logger as a Logger.
func (logData *LogData) Adapter() Logger {
	return NewZerolog(logData.Logger)
}

type zerologAdapter struct {
	z zerolog.Logger
}

// NewZerolog adapts a zerolog.Logger to Logger.
func NewZerolog(z zerolog.Logger) Logger {
	return &zerologAdapter{z: z}
}

func (a *zerologAdapter) Error(msg string, args ...any) {
	a.z.Error().Fields(args).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, args ...any) {
	a.z.Warn().Fields(args).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, args ...any) {
	a.z.Info().Fields(args).Msg(msg)
}

func (a *zerologAdapter) Debug(msg string, args ...any) {
	a.z.Debug().Fields(args).Msg(msg)
}

type nop struct{}

// Nop discards everything.
func Nop() Logger { return nop{} }

func (nop) Error(string, ...any) {}
func (nop) Warn(string, ...any)  {}
func (nop) Info(string, ...any)  {}
func (nop) Debug(string, ...any) {}
