// Package pipeline wires the per-chunk control flow: decode, buffer,
// transcribe, normalize, align, update state, emit.
package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"tartil/align"
	"tartil/asr"
	"tartil/corpus"
	"tartil/decode"
	"tartil/normalize"
	"tartil/session"
)

// chunkDurationSeconds is the source's hard-coded ring-accounting estimate
// per chunk. A more faithful implementation derives this from the decoded
// WAV's sample count / sample rate; kept as a named constant so that fix is
// a one-line change.
const chunkDurationSeconds = 2.0

// Pipeline processes one audio chunk end to end for a given session.
type Pipeline struct {
	decoder     decode.Decoder
	transcriber asr.Transcriber
	engine      *align.Engine
	controller  *session.Controller
}

// New builds a Pipeline from its external collaborators and the alignment
// engine/controller pair.
func New(decoder decode.Decoder, transcriber asr.Transcriber, engine *align.Engine, controller *session.Controller) *Pipeline {
	return &Pipeline{decoder: decoder, transcriber: transcriber, engine: engine, controller: controller}
}

// ProcessChunk runs one chunk through the full pipeline against sess. It
// must be called with sess locked - the caller (the transport layer) owns
// per-session serialization.
func (p *Pipeline) ProcessChunk(ctx context.Context, sess *session.Session, chunk []byte, currentPage *uint32) Outcome {
	start := time.Now()

	wav, err := p.decoder.Decode(sess.CodecHeader, chunk)
	if err != nil {
		log.Printf("pipeline: session %s: decode failed: %v", sess.ID, err)
		return Outcome{Err: &ChunkError{Kind: ErrDecodeFailed, Message: err.Error()}}
	}
	if sess.CodecHeader == nil {
		sess.CodecHeader = p.decoder.ExtractHeader(chunk)
	}

	sess.Ring.Append(wav, chunkDurationSeconds)
	sess.CurrentPage = currentPage

	transcript, err := p.transcriber.Transcribe(ctx, sess.Ring.Concatenate())
	if err != nil {
		log.Printf("pipeline: session %s: transcribe failed: %v", sess.ID, err)
		return Outcome{Err: &ChunkError{Kind: ErrTranscribeFailed, Message: err.Error()}}
	}

	spoken := normalize.Words(transcript)
	if len(spoken) == 0 || allEmpty(spoken) {
		return Outcome{Err: &ChunkError{Kind: ErrNoSpeech, Message: "transcript had no recognizable words"}}
	}

	res := p.engine.Align(spoken, sess.GlobalWordPos, sess.Mode, currentPage)
	p.controller.Apply(sess, res)

	results := make([]WordResult, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m.QuranWord == nil {
			continue
		}
		results = append(results, WordResult{
			AyaID:         m.QuranWord.VerseID,
			WordIndex:     m.QuranWord.WordIndex,
			IsCorrect:     m.IsCorrect,
			Similarity:    m.Similarity,
			AlignmentType: string(m.Type),
			SpokenWord:    m.SpokenWord,
			ExpectedWord:  m.QuranWord.TextNorm,
		})
	}

	return Outcome{
		WordResults: results,
		ChunkDone: &ChunkDone{
			GlobalProgress: sess.GlobalWordPos,
			Confidence:     res.Confidence,
			Mode:           modeString(sess.Mode),
			SegmentScore:   res.SegmentScore,
			MatchesCount:   len(res.Matches),
			ProcessingTime: time.Since(start),
		},
	}
}

func allEmpty(words []string) bool {
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			return false
		}
	}
	return true
}

func modeString(m corpus.Mode) string {
	if m == corpus.ModeSearch {
		return "search"
	}
	return "tracking"
}
