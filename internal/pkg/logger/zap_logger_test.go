package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetLogs_FiltersAndReverses(t *testing.T) {
	path := writeLines(t,
		`{"level":"INFO","timestamp":"t1","message":"first","module":"auth"}`,
		`not json`,
		`{"level":"ERROR","timestamp":"t2","message":"second","module":"chat"}`,
		`{"level":"INFO","timestamp":"t3","message":"third","module":"chat"}`,
	)
	l := &ZapLogger{filePath: path}

	all, err := l.GetLogs(LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)

	infos, err := l.GetLogs(LogFilter{Level: "INFO"})
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	chat, err := l.GetLogs(LogFilter{Module: "chat", Limit: 1})
	require.NoError(t, err)
	require.Len(t, chat, 1)
	assert.Equal(t, "third", chat[0].Message)

	found, err := l.GetLogById(all[1].Id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "second", found.Message)
}

func TestGetLogs_MissingFile(t *testing.T) {
	l := &ZapLogger{filePath: filepath.Join(t.TempDir(), "missing.log")}
	logs, err := l.GetLogs(LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("test", "hello", nil)
	logs, err := l.GetLogs(LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
