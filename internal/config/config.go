package config

import (
	"flag"
	"os"
	"runtime"
	"time"

	"tartil/align"
	"tartil/asr"
)

// Config is every startup knob: alignment thresholds, corpus location,
// transport addresses, and the active ASR backend plus its per-backend
// settings.
type Config struct {
	// Transport.
	Port     string
	GRPCAddr string

	// Corpus.
	CorpusGlob string

	// Audio ring.
	MaxBufferSeconds float64

	// Alignment engine.
	Align align.Config

	// ASR backend selection.
	ASR asr.Config

	// Ambient.
	TraceLogPath string

	// ArchiveDir, if non-empty, is the directory session_close writes each
	// session's cumulative audio to as an MP3 archive. Empty disables
	// archival.
	ArchiveDir string
}

// Load parses flags into a Config. ASR_BACKEND in the environment overrides
// -asr-backend, so the backend stays selectable at startup without a
// rebuild.
func Load() *Config {
	port := flag.String("port", "8080", "Server port")
	grpcAddr := flag.String("grpc-addr", defaultGRPCAddress(), "gRPC listen address (unix:/path/to.sock or npipe:////./pipe/tartil-grpc)")
	corpusGlob := flag.String("corpus", "data/corpus/*.json", "Glob pattern for sharded reference-corpus JSON files")
	maxBufferSeconds := flag.Float64("max-buffer-seconds", align.DefaultConfig().MaxBufferSeconds, "Maximum seconds of audio retained in a session's ring")
	traceLog := flag.String("trace-log", "", "Optional path for rotated trace logging")
	archiveDir := flag.String("archive-dir", "", "Optional directory to archive each session's audio to as MP3 on session_close")

	wordThreshold := flag.Float64("word-threshold", align.DefaultConfig().WordThreshold, "Per-word similarity floor for is_correct")
	segmentThreshold := flag.Float64("segment-threshold", align.DefaultConfig().SegmentThreshold, "Minimum segment score to accept a candidate")
	alpha := flag.Float64("alpha", align.DefaultConfig().Alpha, "Edit-distance weight in segment score (alpha+beta=1)")
	beta := flag.Float64("beta", align.DefaultConfig().Beta, "Length-penalty weight in segment score (alpha+beta=1)")
	deleteCost := flag.Float64("delete-cost", align.DefaultConfig().DeleteCost, "Cost of dropping a spoken word in the segment DP")
	insertCost := flag.Float64("insert-cost", align.DefaultConfig().InsertCost, "Cost of skipping a reference word in the segment DP")
	windowSize := flag.Uint("window-size", uint(align.DefaultConfig().WindowSize), "Forward reach of the tracking window, in words")
	backwardMargin := flag.Uint("backward-margin", uint(align.DefaultConfig().BackwardMargin), "Backward reach of the tracking window, in words")
	minSegmentWords := flag.Int("min-segment-words", align.DefaultConfig().MinSegmentWords, "Minimum candidate segment length, in words")
	maxSegmentWords := flag.Int("max-segment-words", align.DefaultConfig().MaxSegmentWords, "Maximum candidate segment length, in words")
	segmentStride := flag.Int("segment-stride", align.DefaultConfig().SegmentStride, "Step between candidate segment start offsets, in words")
	confidenceThreshold := flag.Float64("confidence-threshold", align.DefaultConfig().ConfidenceThreshold, "Confidence floor before the streak counter advances")
	maxLowConfidence := flag.Int("max-low-confidence", align.DefaultConfig().MaxLowConfidence, "Consecutive low-confidence chunks before dropping to search mode")

	backend := flag.String("asr-backend", "whisper", "ASR backend: whisper or nemo (overridable via ASR_BACKEND env)")
	whisperBaseURL := flag.String("whisper-base-url", "", "Base URL of the Whisper-compatible HTTP endpoint")
	whisperAPIKey := flag.String("whisper-api-key", "", "API key for the Whisper-compatible HTTP endpoint")
	whisperModel := flag.String("whisper-model", "whisper-1", "Model name to request from the Whisper-compatible endpoint")
	nemoModelDir := flag.String("nemo-model-dir", "", "Directory holding the local sherpa-onnx transducer model")
	nemoTokens := flag.String("nemo-tokens", "", "Path to the local model's tokens.txt")
	nemoThreads := flag.Int("nemo-threads", 4, "Thread count for the local sherpa-onnx recognizer")

	flag.Parse()

	cfg := align.DefaultConfig()
	cfg.WordThreshold = *wordThreshold
	cfg.SegmentThreshold = *segmentThreshold
	cfg.Alpha = *alpha
	cfg.Beta = *beta
	cfg.DeleteCost = *deleteCost
	cfg.InsertCost = *insertCost
	cfg.WindowSize = uint32(*windowSize)
	cfg.BackwardMargin = uint32(*backwardMargin)
	cfg.MinSegmentWords = *minSegmentWords
	cfg.MaxSegmentWords = *maxSegmentWords
	cfg.SegmentStride = *segmentStride
	cfg.ConfidenceThreshold = *confidenceThreshold
	cfg.MaxLowConfidence = *maxLowConfidence
	cfg.MaxBufferSeconds = *maxBufferSeconds

	return &Config{
		Port:             *port,
		GRPCAddr:         *grpcAddr,
		CorpusGlob:       *corpusGlob,
		MaxBufferSeconds: *maxBufferSeconds,
		Align:            cfg,
		TraceLogPath:     *traceLog,
		ArchiveDir:       *archiveDir,
		ASR: asr.Config{
			Backend: resolveBackend(*backend),
			Whisper: asr.WhisperCloudConfig{
				BaseURL: *whisperBaseURL,
				APIKey:  *whisperAPIKey,
				Model:   *whisperModel,
				Timeout: 15 * time.Second,
			},
			Nemo: asr.NemoLocalConfig{
				ModelDir:   *nemoModelDir,
				Tokens:     *nemoTokens,
				NumThreads: *nemoThreads,
				Provider:   detectBestProvider(),
			},
		},
	}
}

func resolveBackend(flagValue string) asr.Backend {
	if env := os.Getenv("ASR_BACKEND"); env != "" {
		return asr.Backend(env)
	}
	return asr.Backend(flagValue)
}

func defaultGRPCAddress() string {
	if runtime.GOOS == "windows" {
		return "npipe:\\\\.\\pipe\\tartil-grpc"
	}
	return "unix:/tmp/tartil-grpc.sock"
}

func detectBestProvider() string {
	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return "coreml"
	}
	return "cpu"
}
