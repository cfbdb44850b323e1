package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_AcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	require.NoError(t, l.Acquire())
	assert.FileExists(t, filepath.Join(dir, ".lock"))
	require.NoError(t, l.Release())
	assert.NoFileExists(t, filepath.Join(dir, ".lock"))
}

func TestFileLock_SecondAcquireByLiveHolderFails(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	require.NoError(t, first.Acquire())
	defer first.Release()

	second := New(dir)
	assert.ErrorIs(t, second.Acquire(), ErrLocked)
}

func TestFileLock_StealsStaleLock(t *testing.T) {
	dir := t.TempDir()
	stalePath := filepath.Join(dir, ".lock")
	stale := token{Token: "old", PID: 1, AcquiredAt: time.Now().Add(-staleAfter * 2)}
	bs, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(stalePath, bs, 0644))

	l := New(dir)
	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())
}
