package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// WhisperCloudConfig configures the remote Whisper-compatible endpoint.
type WhisperCloudConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultWhisperCloudConfig returns sane defaults; BaseURL and APIKey still
// need to be supplied by the caller.
func DefaultWhisperCloudConfig() WhisperCloudConfig {
	return WhisperCloudConfig{
		Model:   "whisper-1",
		Timeout: 15 * time.Second,
	}
}

// WhisperCloud transcribes via an OpenAI-compatible /v1/audio/transcriptions
// HTTP endpoint, posting the session's cumulative WAV buffer on every call.
type WhisperCloud struct {
	cfg    WhisperCloudConfig
	client *http.Client
}

// NewWhisperCloud builds a WhisperCloud backend from cfg.
func NewWhisperCloud(cfg WhisperCloudConfig) *WhisperCloud {
	return &WhisperCloud{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type whisperTranscriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe posts wav as multipart form data and returns the "text" field
// of the JSON response.
func (w *WhisperCloud) Transcribe(ctx context.Context, wav []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "chunk.wav")
	if err != nil {
		return "", fmt.Errorf("whisper cloud: building form: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return "", fmt.Errorf("whisper cloud: writing audio: %w", err)
	}
	if err := mw.WriteField("model", w.cfg.Model); err != nil {
		return "", fmt.Errorf("whisper cloud: writing model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("whisper cloud: closing form: %w", err)
	}

	url := w.cfg.BaseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("whisper cloud: building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.APIKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper cloud: request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("whisper cloud: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper cloud: status %d: %s", resp.StatusCode, payload)
	}

	var parsed whisperTranscriptionResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("whisper cloud: decoding response: %w", err)
	}
	return parsed.Text, nil
}

func (w *WhisperCloud) Name() string { return "whisper-cloud" }

func (w *WhisperCloud) Close() error { return nil }
