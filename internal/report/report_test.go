package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/harrison/bytegrep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchSet(paths ...string) *models.MatchSet {
	ms := models.NewMatchSet()
	for _, p := range paths {
		ms.Add(p)
	}
	return ms
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		matches *models.MatchSet
		want    string
	}{
		{name: "nil", matches: nil, want: ""},
		{name: "empty", matches: matchSet(), want: ""},
		{name: "sorted", matches: matchSet("root/b.txt", "root/a.txt"), want: "\"root/a.txt\"\n\"root/b.txt\"\n"},
		{name: "escaped", matches: matchSet("dir/we\"ird\tname"), want: "\"dir/we\\\"ird\\tname\"\n"},
		{name: "duplicates collapse", matches: matchSet("x", "x"), want: "\"x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Format(tt.matches)))
		})
	}
}

func TestWriter_StdoutOnly(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, "")

	require.NoError(t, w.Write(matchSet("a.txt")))
	assert.Equal(t, "\"a.txt\"\n", out.String())
}

func TestWriter_ReportFile(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "nested", "report.txt")
	w := NewWriter(&out, path)

	require.NoError(t, w.Write(matchSet("b", "a")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(data))
	assert.Equal(t, "\"a\"\n\"b\"\n", string(data))

	// A second run replaces the report rather than appending
	require.NoError(t, w.Write(matchSet()))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriter_OutputError(t *testing.T) {
	err := NewWriter(failingWriter{}, "").Write(matchSet("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")
}

func TestAtomicWrite_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	require.NoError(t, AtomicWrite(path, []byte("one\n")))
	require.NoError(t, AtomicWrite(path, []byte("two\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.txt", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestAtomicWrite_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0755))

	err := AtomicWrite(target, []byte("data"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be removed after a failed rename")
}

func TestFileLock_TryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "report.lock")

	first := NewFileLock(lockPath)
	require.NoError(t, first.Lock())

	second := NewFileLock(lockPath)
	acquired, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired, "lock held elsewhere must not be acquired")

	require.NoError(t, first.Unlock())

	acquired, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, second.Unlock())
}

func TestLockAndWrite_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	payloads := []string{"\"a\"\n", "\"b\"\n\"c\"\n", "\"d\"\n\"e\"\n\"f\"\n"}

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(data string) {
			defer wg.Done()
			if err := LockAndWrite(path, []byte(data)); err != nil {
				t.Errorf("LockAndWrite() error = %v", err)
			}
		}(payloads[i%len(payloads)])
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data), "report must hold exactly one complete payload")
}
