package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quillvoice/quill/internal/config"
	"github.com/quillvoice/quill/internal/history"
	"github.com/stretchr/testify/require"
)

func newClipboardOnlyConfig(t *testing.T, clipboardPath string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paste.Enable = false
	cfg.Clipboard = config.CommandConfig{Argv: []string{writeStdinCaptureScript(t), clipboardPath}}
	return cfg
}

func TestSinkAppendsRecordAndCommits(t *testing.T) {
	dir := t.TempDir()
	clipboardPath := filepath.Join(dir, "clipboard.txt")
	store := history.NewStore(filepath.Join(dir, "history.json"))

	cfg := newClipboardOnlyConfig(t, clipboardPath)
	sink := NewSink(store, NewCommitter(cfg, nil), nil, map[string]any{"backend": "whisper"})

	record, err := sink.RecordAndDeliver(context.Background(), "raw words", "Raw words.", map[string]any{"session_id": "abc"})
	require.NoError(t, err)
	require.Equal(t, "raw words", record.Transcription)
	require.Equal(t, "Raw words.", record.Refined)
	require.Equal(t, "whisper", record.Metadata["backend"])
	require.Equal(t, "abc", record.Metadata["session_id"])
	require.False(t, record.Timestamp.IsZero())

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Raw words.", records[0].Refined)
}

func TestSinkSessionMetadataOverridesBase(t *testing.T) {
	dir := t.TempDir()
	store := history.NewStore(filepath.Join(dir, "history.json"))

	cfg := newClipboardOnlyConfig(t, filepath.Join(dir, "clipboard.txt"))
	sink := NewSink(store, NewCommitter(cfg, nil), nil, map[string]any{"backend": "whisper"})

	record, err := sink.RecordAndDeliver(context.Background(), "x", "X.", map[string]any{"backend": "server"})
	require.NoError(t, err)
	require.Equal(t, "server", record.Metadata["backend"])
}

func TestSinkHistoryFailureReturnsError(t *testing.T) {
	dir := t.TempDir()
	// Point the store at a path whose parent is a file, so appends fail.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	store := history.NewStore(filepath.Join(blocker, "history.json"))

	cfg := newClipboardOnlyConfig(t, filepath.Join(dir, "clipboard.txt"))
	sink := NewSink(store, NewCommitter(cfg, nil), nil, nil)

	_, err := sink.RecordAndDeliver(context.Background(), "x", "X.", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "append session history")
}

func TestSinkClipboardFailureKeepsRecord(t *testing.T) {
	dir := t.TempDir()
	store := history.NewStore(filepath.Join(dir, "history.json"))

	cfg := config.Default()
	cfg.Paste.Enable = false
	cfg.Clipboard = config.CommandConfig{Argv: []string{writeFailScript(t, "no clipboard")}}

	sink := NewSink(store, NewCommitter(cfg, nil), nil, nil)

	_, err := sink.RecordAndDeliver(context.Background(), "x", "X.", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "deliver refined text")

	records, listErr := store.List()
	require.NoError(t, listErr)
	require.Len(t, records, 1)
}
