package enginelog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(slog.New(h))
}

func TestOperationLogsStartAndSuccess(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	done := l.Operation(context.Background(), "SELECT", "users")
	done(nil)

	out := buf.String()
	assert.Contains(t, out, "operation start")
	assert.Contains(t, out, "operation ok")
	assert.Contains(t, out, "op=SELECT")
	assert.Contains(t, out, "table=users")
}

func TestOperationLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	done := l.Operation(context.Background(), "INSERT", "users")
	done(assert.AnError)

	assert.Contains(t, buf.String(), "operation failed")
}

func TestCascadeAndRestrictLogging(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Cascade(context.Background(), "posts", 3)
	l.Restrict(context.Background(), "users", "posts")

	out := buf.String()
	assert.Contains(t, out, "cascade delete")
	assert.Contains(t, out, "rows_deleted=3")
	assert.Contains(t, out, "delete restricted by foreign key")
}

func TestNilLoggerMethodsAreNoops(t *testing.T) {
	var l *Logger
	done := l.Operation(context.Background(), "SELECT", "users")
	assert.NotPanics(t, func() { done(nil) })
	assert.NotPanics(t, func() { l.Cascade(context.Background(), "posts", 1) })
	assert.NotPanics(t, func() { l.Restrict(context.Background(), "users", "posts") })
}
