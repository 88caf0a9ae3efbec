package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLinesAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.txt")
	l, err := New(path, zapcore.InfoLevel)
	require.NoError(t, err)

	l.Log("tree shown")
	l.Warnf("persist failed: %d", 3)
	l.Debugf("below the level")
	l.Zap().Info("camera moved", zap.Float32("y", 2))
	require.NoError(t, l.Close())

	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "tree shown")
	assert.Contains(t, lines[1], "persist failed: 3")
	assert.Contains(t, lines[2], `{"y": 2}`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tree shown")
	assert.Contains(t, string(data), "camera moved")
}

func TestLinesIsACopy(t *testing.T) {
	l := NewMemory()
	l.Infof("a")
	lines := l.Lines()
	lines[0] = "changed"
	assert.Contains(t, l.Lines()[0], "a")
}

func TestTail(t *testing.T) {
	l := NewMemory()
	for _, s := range []string{"one", "two", "three"} {
		l.Log(s)
	}
	tail := l.Tail(2)
	require.Len(t, tail, 2)
	assert.Contains(t, tail[0], "two")
	assert.Contains(t, tail[1], "three")
	assert.Len(t, l.Tail(10), 3)
}

func TestMemoryKeepsRecentLines(t *testing.T) {
	l := NewMemory()
	total := 2*MaxLines + 3
	for i := range total {
		l.Debugf("line %d", i)
	}
	lines := l.Lines()
	require.Len(t, lines, MaxLines)
	assert.True(t, strings.HasSuffix(lines[0], fmt.Sprintf("line %d", total-MaxLines)), lines[0])
	assert.True(t, strings.HasSuffix(lines[MaxLines-1], fmt.Sprintf("line %d", total-1)), lines[MaxLines-1])

	l.mu.Lock()
	held := len(l.lines)
	l.mu.Unlock()
	assert.Less(t, held, 2*MaxLines)
}
