// Package asr adapts the external speech-to-text collaborator boundary:
// something that turns cumulative session audio into a raw transcript
// string. The core never trains, fine-tunes, or scores a model itself - it
// only calls Transcribe and normalizes what comes back.
package asr

import "context"

// Transcriber turns 16kHz mono WAV bytes into a raw (un-normalized)
// transcript. Implementations may use an on-device model or a remote HTTP
// service; callers should not assume either latency profile.
type Transcriber interface {
	// Transcribe runs on the cumulative audio the session's AudioRing holds
	// for one chunk. wav is 16kHz mono PCM WAV, complete with header.
	Transcribe(ctx context.Context, wav []byte) (string, error)

	// Name identifies the backend for logging.
	Name() string

	// Close releases any resources (model handles, HTTP clients) held by
	// the backend.
	Close() error
}

// Backend selects which Transcriber implementation Build constructs.
type Backend string

const (
	// BackendNemo runs a local sherpa-onnx offline ASR model.
	BackendNemo Backend = "nemo"
	// BackendWhisper calls a remote Whisper-compatible HTTP endpoint.
	BackendWhisper Backend = "whisper"
)
