package pipeline

import "time"

// WordResult is emitted once per match that carries a quran_word, including
// deletions, whose SpokenWord is empty.
type WordResult struct {
	AyaID         uint32  `json:"aya_id"`
	WordIndex     uint16  `json:"word_index"`
	IsCorrect     bool    `json:"is_correct"`
	Similarity    float64 `json:"similarity"`
	AlignmentType string  `json:"alignment_type"`
	SpokenWord    string  `json:"spoken_word"`
	ExpectedWord  string  `json:"expected_word"`
}

// ChunkDone is the chunk-completion summary emitted after every chunk that
// reaches alignment, whether or not its segment was accepted. A chunk
// dropped with a ChunkError gets no ChunkDone.
type ChunkDone struct {
	GlobalProgress uint32        `json:"global_progress"`
	Confidence     float64       `json:"confidence"`
	Mode           string        `json:"mode"`
	SegmentScore   float64       `json:"segment_score"`
	MatchesCount   int           `json:"matches_count"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// ErrorKind names the per-chunk error forms a pipeline run can report.
type ErrorKind string

const (
	ErrDecodeFailed     ErrorKind = "audio_conversion_failed"
	ErrTranscribeFailed ErrorKind = "transcription_failed"
	ErrASR              ErrorKind = "asr_error"
	ErrNoSpeech         ErrorKind = "no_speech"
)

// ChunkError is the error form emitted when a chunk is dropped.
type ChunkError struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
}

func (e *ChunkError) Error() string { return string(e.Kind) + ": " + e.Message }

// Outcome is everything a single ProcessChunk call can hand back to the
// transport layer: either a populated set of results, or an error - never
// both.
type Outcome struct {
	WordResults []WordResult
	ChunkDone   *ChunkDone
	Err         *ChunkError
}
