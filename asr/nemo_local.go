package asr

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// NemoLocalConfig points at an on-device NeMo-style transducer model served
// through sherpa-onnx's offline recognizer.
type NemoLocalConfig struct {
	ModelDir   string
	Tokens     string
	NumThreads int
	Provider   string // cpu, cuda, coreml
}

// NemoLocal runs ASR fully on-device via sherpa-onnx-go, one fresh
// OfflineStream per Transcribe call since each chunk carries the session's
// full cumulative buffer rather than incremental audio.
type NemoLocal struct {
	mu         sync.Mutex
	recognizer *sherpa.OfflineRecognizer
}

// NewNemoLocal loads the model described by cfg. The recognizer is retained
// for the lifetime of the backend; Close releases it.
func NewNemoLocal(cfg NemoLocalConfig) (*NemoLocal, error) {
	config := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: 16000,
			FeatureDim: 80,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Transducer: sherpa.OfflineTransducerModelConfig{
				Encoder: cfg.ModelDir + "/encoder.onnx",
				Decoder: cfg.ModelDir + "/decoder.onnx",
				Joiner:  cfg.ModelDir + "/joiner.onnx",
			},
			Tokens:     cfg.Tokens,
			NumThreads: cfg.NumThreads,
			Provider:   cfg.Provider,
			Debug:      0,
		},
		DecodingMethod: "greedy_search",
	}

	recognizer := sherpa.NewOfflineRecognizer(&config)
	if recognizer == nil {
		return nil, fmt.Errorf("nemo local: failed to create recognizer from %s", cfg.ModelDir)
	}

	return &NemoLocal{recognizer: recognizer}, nil
}

// Transcribe decodes samples extracted from wav (16kHz mono PCM) through the
// offline recognizer. context cancellation is not honored mid-decode;
// sherpa-onnx's C++ core doesn't expose a cancellation hook.
func (n *NemoLocal) Transcribe(ctx context.Context, wav []byte) (string, error) {
	samples, err := pcm16WavToFloat32(wav)
	if err != nil {
		return "", fmt.Errorf("nemo local: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	stream := sherpa.NewOfflineStream(n.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(16000, samples)
	n.recognizer.Decode(stream)
	result := stream.GetResult()
	return result.Text, nil
}

// pcm16WavToFloat32 converts a 44-byte-header 16-bit PCM WAV buffer into
// normalized float32 samples, the format sherpa-onnx's AcceptWaveform takes.
func pcm16WavToFloat32(wav []byte) ([]float32, error) {
	const headerSize = 44
	if len(wav) < headerSize {
		return nil, fmt.Errorf("wav buffer too short: %d bytes", len(wav))
	}
	data := wav[headerSize:]
	n := len(data) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}

func (n *NemoLocal) Name() string { return "nemo-local" }

func (n *NemoLocal) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(n.recognizer)
		n.recognizer = nil
	}
	return nil
}
