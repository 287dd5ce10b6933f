// FILE: lixenwraith/dlog/format_test.go
package dlog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
}

func TestFormatArgs(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC)

	tests := []struct {
		name string
		args []any
		want string
	}{
		{"empty", nil, ""},
		{"single string", []any{"hello"}, "hello"},
		{"mixed scalars", []any{"n", 1, int64(-2), uint(3), 1.5, true}, "n 1 -2 3 1.5 true"},
		{"nil", []any{"value", nil}, "value nil"},
		{"error", []any{errors.New("disk full")}, "disk full"},
		{"time", []any{ts}, "2026-03-04 05:06:07.890"},
		{"duration", []any{1500 * time.Millisecond}, "1.5s"},
		{"bytes", []any{[]byte("raw")}, "raw"},
		{"stringer", []any{SeverityError}, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatArgs(tt.args))
		})
	}
}

func TestFormatArgsComposite(t *testing.T) {
	out := formatArgs([]any{"at", point{X: 1, Y: 2}})

	assert.Contains(t, out, "dlog.point")
	assert.Contains(t, out, "X: (int) 1")
	assert.NotContains(t, out, "\n", "composite values are rendered on one line")
}

func TestAppendLine(t *testing.T) {
	line := appendLine(nil, SeverityInfo, []byte("2026-01-01 00:00:00.000"), []byte("ready"))
	assert.Equal(t, "2026-01-01 00:00:00.000 [INFO] ready\n", string(line))
}
