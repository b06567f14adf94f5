package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debug.log")
	l, err := Open(path)
	require.NoError(t, err)
	return l, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLogger_WritesTimestampedLeveledLines(t *testing.T) {
	l, path := openTestLogger(t)
	l.Debugf("debug %d", 1)
	l.Infof("info here")
	l.Warningf("watch out")
	l.Errorf("boom")
	require.NoError(t, l.Close())

	out := readLog(t, path)
	require.Contains(t, out, "[DEBUG] debug 1")
	require.Contains(t, out, "[INFO] info here")
	require.Contains(t, out, "[WARNING] watch out")
	require.Contains(t, out, "[ERROR] boom")
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, path := openTestLogger(t)
	l.SetLevel(LevelWarning)
	l.Debugf("hidden")
	l.Infof("also hidden")
	l.Errorf("visible")
	require.NoError(t, l.Close())

	out := readLog(t, path)
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "visible")
}

func TestLogger_NilReceiverIsSafe(t *testing.T) {
	var l *Logger
	l.Debugf("no crash")
	l.SetLevel(LevelError)
	require.NoError(t, l.Close())
}

func TestLogger_CloseTwice(t *testing.T) {
	l, _ := openTestLogger(t)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	// Logging after close must be a no-op, never a crash.
	l.Errorf("after close")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("debug"))
	require.Equal(t, LevelWarning, ParseLevel("WARN"))
	require.Equal(t, LevelWarning, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelInfo, ParseLevel("bogus"))
	require.Equal(t, LevelInfo, ParseLevel(""))
}
