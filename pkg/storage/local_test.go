package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ADMISSION/S2024_1/r-1.pdf", []byte("%PDF-1.4")))
	data, err := store.Read(ctx, "ADMISSION/S2024_1/r-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	require.NoError(t, store.Delete(ctx, "ADMISSION/S2024_1/r-1.pdf"))
	_, err = store.Read(ctx, "ADMISSION/S2024_1/r-1.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.NoError(t, store.Delete(ctx, "ADMISSION/S2024_1/r-1.pdf"))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), "../outside.pdf", []byte("x"))
	assert.Error(t, err)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "roster/old.csv", []byte("a")))
	require.NoError(t, store.Save(ctx, "roster/new.csv", []byte("b")))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "roster", "old.csv"), past, past))

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"roster/old.csv"}, deleted)

	file, info, err := store.Open("roster/new.csv")
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, int64(1), info.Size())
}

func TestLocalStorageConcurrentSavesToSamePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	const writers = 16
	payloads := make(map[string]bool, writers)
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		body := fmt.Sprintf("%%PDF-1.4 writer %02d %s", i, strings.Repeat("x", 4096))
		payloads[body] = true
		wg.Add(1)
		go func(body string) {
			defer wg.Done()
			errs <- store.Save(ctx, "DEPARTURE/S2024_1/r-1.pdf", []byte(body))
		}(body)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	data, err := store.Read(ctx, "DEPARTURE/S2024_1/r-1.pdf")
	require.NoError(t, err)
	assert.True(t, payloads[string(data)])

	entries, err := os.ReadDir(filepath.Join(dir, "DEPARTURE", "S2024_1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "r-1.pdf", entries[0].Name())
}
