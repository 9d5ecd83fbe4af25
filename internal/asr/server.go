package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// ServerEngine transcribes against a running whisper-server instance via its
// POST /inference endpoint. The recording is wrapped in a WAV container and
// uploaded as multipart form data.
type ServerEngine struct {
	serverURL string
	language  string
	client    *http.Client
}

// NewServerEngine builds an engine for the whisper-server at serverURL, e.g.
// "http://localhost:8080". Request deadlines come from the caller's context.
func NewServerEngine(serverURL, language string) (*ServerEngine, error) {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if serverURL == "" {
		return nil, errors.New("whisper server URL must not be empty")
	}
	if language == "" {
		language = "en"
	}
	return &ServerEngine{
		serverURL: serverURL,
		language:  language,
		client:    &http.Client{},
	}, nil
}

func (e *ServerEngine) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	wav := EncodeWAV(pcm, SampleRate, Channels)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(wav); err != nil {
		return "", fmt.Errorf("write wav payload: %w", err)
	}
	if err := mw.WriteField("language", e.language); err != nil {
		return "", fmt.Errorf("write language field: %w", err)
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("write response_format field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.serverURL+"/inference", &body)
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper server request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper server returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("parse inference response: %w", err)
	}

	return strings.TrimSpace(result.Text), nil
}

// Close is a no-op; the HTTP client holds no persistent resources.
func (*ServerEngine) Close() error { return nil }
