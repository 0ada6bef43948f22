package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigWatcher(t *testing.T) {
	t.Run("write triggers one debounced reload", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "svitlogrid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/Kyiv\n"), 0o644))

		ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
		defer cancel()

		changed := make(chan struct{}, 1)
		cw, err := NewConfigWatcher(path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		require.NoError(t, err)
		cw.debounceTime = 50 * time.Millisecond
		require.NoError(t, cw.Start(ctx))
		t.Cleanup(func() { _ = cw.Stop() })

		require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/Kyiv\nmetrics: true\n"), 0o644))
		require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/Kyiv\nmetrics: false\n"), 0o644))

		select {
		case <-changed:
		case <-ctx.Done():
			t.Fatal("timed out waiting for reload callback")
		}
	})

	t.Run("unrelated files are ignored", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "svitlogrid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timezone: UTC\n"), 0o644))

		ctx, cancel := context.WithTimeout(t.Context(), 500*time.Millisecond)
		defer cancel()

		changed := make(chan struct{}, 1)
		cw, err := NewConfigWatcher(path, func() { changed <- struct{}{} })
		require.NoError(t, err)
		cw.debounceTime = 50 * time.Millisecond
		require.NoError(t, cw.Start(ctx))
		t.Cleanup(func() { _ = cw.Stop() })

		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("noise"), 0o644))

		select {
		case <-changed:
			t.Fatal("unexpected reload for unrelated file")
		case <-ctx.Done():
		}
	})
}
