// Package slog adapts log/slog to logger.Logger. It is the default logger of a connection.
package slog

import (
	"io"
	"log/slog"

	"github.com/docussandra/docussandra-go/pkg/logger"
)

type SlogHandler struct {
	logger *slog.Logger
}

var _ logger.Logger = (*SlogHandler)(nil)

func New(h slog.Handler) *SlogHandler {
	logger := slog.New(h)
	return &SlogHandler{logger: logger}
}

// NewText logs human-readable lines at level and above to w.
func NewText(w io.Writer, level slog.Level) *SlogHandler {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// With returns a handler that adds args to every record.
func (handler *SlogHandler) With(args ...any) *SlogHandler {
	return &SlogHandler{logger: handler.logger.With(args...)}
}

func (handler *SlogHandler) Error(msg string, args ...any) {
	handler.logger.Error(msg, args...)
}

func (handler *SlogHandler) Warn(msg string, args ...any) {
	handler.logger.Warn(msg, args...)
}

func (handler *SlogHandler) Info(msg string, args ...any) {
	handler.logger.Info(msg, args...)
}

func (handler *SlogHandler) Debug(msg string, args ...any) {
	handler.logger.Debug(msg, args...)
}
