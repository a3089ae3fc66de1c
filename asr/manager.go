package asr

import "fmt"

// Config selects and configures the active transcription backend.
type Config struct {
	Backend Backend
	Whisper WhisperCloudConfig
	Nemo    NemoLocalConfig
}

// Build constructs the Transcriber named by cfg.Backend.
func Build(cfg Config) (Transcriber, error) {
	switch cfg.Backend {
	case BackendWhisper:
		return NewWhisperCloud(cfg.Whisper), nil
	case BackendNemo:
		return NewNemoLocal(cfg.Nemo)
	default:
		return nil, fmt.Errorf("asr: unknown backend %q", cfg.Backend)
	}
}
