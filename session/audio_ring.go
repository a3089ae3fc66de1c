package session

import (
	"bytes"
	"encoding/binary"
)

// wavHeaderSize is the fixed 44-byte RIFF/WAVE header length this ring
// assumes for every chunk: 16kHz/mono/16-bit PCM throughout a session. A
// stricter implementation would parse each chunk's RIFF header and merge
// the "data" sub-chunks instead.
const wavHeaderSize = 44

// ringChunk is one buffered chunk of decoded audio.
type ringChunk struct {
	wav      []byte
	duration float64 // seconds
}

// AudioRing is the bounded sliding buffer of decoded WAV chunks (C7).
// Invariant: after any Append, either TotalDuration() <= max or exactly one
// chunk remains - the ring never evicts its sole remaining chunk.
type AudioRing struct {
	max    float64
	chunks []ringChunk
	total  float64
}

// NewAudioRing creates an empty ring capped at maxBufferSeconds.
func NewAudioRing(maxBufferSeconds float64) *AudioRing {
	return &AudioRing{max: maxBufferSeconds}
}

// Append adds a decoded chunk, then evicts from the front one chunk at a
// time while the cap is exceeded and more than one chunk remains.
func (r *AudioRing) Append(wav []byte, duration float64) {
	r.chunks = append(r.chunks, ringChunk{wav: wav, duration: duration})
	r.total += duration

	for r.total > r.max && len(r.chunks) > 1 {
		evicted := r.chunks[0]
		r.chunks = r.chunks[1:]
		r.total -= evicted.duration
	}
}

// Len returns the number of chunks currently buffered.
func (r *AudioRing) Len() int { return len(r.chunks) }

// TotalDuration returns the cumulative duration of the buffered chunks.
func (r *AudioRing) TotalDuration() float64 { return r.total }

// Clear empties both the chunk list and the duration counter.
func (r *AudioRing) Clear() {
	r.chunks = nil
	r.total = 0
}

// Concatenate returns WAV bytes covering the ring: the first chunk in full,
// then for each subsequent chunk the fixed WAV header stripped and only its
// sample data appended, with the combined header's data-size field patched
// to match.
func (r *AudioRing) Concatenate() []byte {
	if len(r.chunks) == 0 {
		return nil
	}
	if len(r.chunks) == 1 {
		return r.chunks[0].wav
	}

	var buf bytes.Buffer
	buf.Write(r.chunks[0].wav)
	for _, c := range r.chunks[1:] {
		if len(c.wav) > wavHeaderSize {
			buf.Write(c.wav[wavHeaderSize:])
		}
	}

	out := buf.Bytes()
	patchDataSize(out)
	return out
}

// patchDataSize rewrites the RIFF chunk size (bytes 4:8) and the data
// sub-chunk size (bytes 40:44) of a concatenated WAV buffer to match its
// actual length, so downstream consumers relying on those fields don't read
// the first chunk's original (now-stale) sizes.
func patchDataSize(wav []byte) {
	if len(wav) < wavHeaderSize {
		return
	}
	dataSize := uint32(len(wav) - wavHeaderSize)
	binary.LittleEndian.PutUint32(wav[4:8], 36+dataSize)
	binary.LittleEndian.PutUint32(wav[40:44], dataSize)
}
