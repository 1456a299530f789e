// Package enginelog wraps log/slog around the executor's operation
// entry points, giving every CREATE/INSERT/SELECT/UPDATE/DELETE call
// and foreign-key cascade step a consistent structured log record.
package enginelog

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps a slog.Logger with the engine's fixed set of fields.
type Logger struct {
	base *slog.Logger
}

// New creates a Logger that writes its records through base. Use
// NewDefault for a text handler on os.Stderr.
func New(base *slog.Logger) *Logger {
	return &Logger{base: base}
}

// NewDefault creates a Logger writing to os.Stderr at Info level.
func NewDefault() *Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{base: slog.New(h)}
}

// Operation logs the start and outcome of one executor call (CREATE,
// INSERT, SELECT, UPDATE, DELETE, LIST TABLES). Call the returned
// function with the resulting error (nil on success) when the
// operation completes.
func (l *Logger) Operation(ctx context.Context, op, table string) func(err error) {
	if l == nil {
		return func(error) {}
	}
	start := time.Now()
	l.base.DebugContext(ctx, "operation start", "op", op, "table", table)
	return func(err error) {
		dur := time.Since(start)
		if err != nil {
			l.base.WarnContext(ctx, "operation failed", "op", op, "table", table, "duration", dur, "error", err)
			return
		}
		l.base.DebugContext(ctx, "operation ok", "op", op, "table", table, "duration", dur)
	}
}

// Cascade logs one step of a foreign-key CASCADE delete.
func (l *Logger) Cascade(ctx context.Context, childTable string, deleted int) {
	if l == nil {
		return
	}
	l.base.InfoContext(ctx, "cascade delete", "table", childTable, "rows_deleted", deleted)
}

// Restrict logs a DELETE rejected by a FK RESTRICT check.
func (l *Logger) Restrict(ctx context.Context, parentTable, childTable string) {
	if l == nil {
		return
	}
	l.base.WarnContext(ctx, "delete restricted by foreign key", "parent", parentTable, "child", childTable)
}
