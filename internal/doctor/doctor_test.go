package doctor

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quillvoice/quill/internal/config"
	"github.com/stretchr/testify/require"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("TEST_DOCTOR_ENV", "wayland")

	check := checkEnv(
		"TEST_DOCTOR_ENV",
		func(v string) bool { return strings.EqualFold(v, "wayland") },
		"looks good",
		"unexpected",
	)

	require.True(t, check.Pass)
	require.Equal(t, "looks good", check.Message)
}

func TestCheckCommandEmpty(t *testing.T) {
	check := checkCommand(nil, "clipboard_cmd")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "command is empty")
}

func TestCheckBinaryFound(t *testing.T) {
	check := checkBinary("sh", "shell available")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "shell available")
}

func TestCheckBinaryMissing(t *testing.T) {
	check := checkBinary("definitely-not-a-real-binary", "unused")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "binary not found")
}

func TestCheckCommandUsesBinaryFromPath(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "fake-bin")
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/usr/bin/env bash\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))

	check := checkCommand([]string{"fake-bin", "--arg"}, "clipboard_cmd")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "clipboard_cmd command is available")
}

func TestCheckASRReadyModelFile(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "ggml-base.en.bin")
	require.NoError(t, os.WriteFile(modelPath, []byte("model-bytes"), 0o600))

	cfg := config.Default()
	cfg.ASR.Backend = config.BackendWhisper
	cfg.ASR.ModelPath = modelPath

	check := checkASRReady(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, modelPath)
}

func TestCheckASRReadyMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.ASR.Backend = config.BackendWhisper
	cfg.ASR.ModelPath = filepath.Join(t.TempDir(), "missing.bin")

	check := checkASRReady(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "model not readable")
}

func TestCheckASRReadyModelPathUnset(t *testing.T) {
	cfg := config.Default()
	cfg.ASR.Backend = config.BackendWhisper
	cfg.ASR.ModelPath = ""

	check := checkASRReady(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "asr.model_path is not set")
}

func TestCheckASRReadyServerSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.ASR.Backend = config.BackendServer
	cfg.ASR.ServerURL = server.URL

	check := checkASRReady(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "whisper-server ready")
}

func TestCheckASRReadyServerFailureStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.ASR.Backend = config.BackendServer
	cfg.ASR.ServerURL = server.URL

	check := checkASRReady(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "HTTP 503")
}

func TestCheckASRReadyUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.ASR.Backend = "cloud"

	check := checkASRReady(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "unknown backend")
}

func TestCheckHistoryWritable(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.json")

	check := checkHistoryWritable(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "writable")
}

func TestCheckHistoryWritableFailsOnFileParent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cfg := config.Default()
	cfg.History.Path = filepath.Join(blocker, "history.json")

	check := checkHistoryWritable(cfg)
	require.False(t, check.Pass)
}
