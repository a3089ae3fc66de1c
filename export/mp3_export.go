// Package export archives a closed session's cumulative audio to disk as
// MP3, for operators who want a durable recording alongside the live
// alignment stream. This is supplementary: the core alignment path never
// reads these files back.
package export

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/braheezy/shine-mp3/pkg/mp3"
)

const shineBlockSamples = 1152

// MP3Writer streams PCM16 mono samples into an MP3 file via shine-mp3 (pure
// Go, no ffmpeg).
type MP3Writer struct {
	file       *os.File
	encoder    *mp3.Encoder
	filePath   string
	sampleRate int
	buffer     []int16
	written    int64
	closed     bool
}

// NewMP3Writer creates filePath and prepares a mono encoder at sampleRate.
func NewMP3Writer(filePath string, sampleRate int) (*MP3Writer, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("mp3 export: creating file: %w", err)
	}

	return &MP3Writer{
		file:       file,
		encoder:    mp3.NewEncoder(sampleRate, 1),
		filePath:   filePath,
		sampleRate: sampleRate,
		buffer:     make([]int16, 0, shineBlockSamples*4),
	}, nil
}

// WriteWAV appends one RIFF/WAVE chunk's sample data (16-bit mono PCM,
// 44-byte header) to the archive.
func (w *MP3Writer) WriteWAV(wav []byte) error {
	if w.closed {
		return fmt.Errorf("mp3 export: writer closed")
	}
	if len(wav) <= 44 {
		return nil
	}
	data := wav[44:]
	n := len(data) / 2
	for i := 0; i < n; i++ {
		w.buffer = append(w.buffer, int16(binary.LittleEndian.Uint16(data[i*2:i*2+2])))
	}
	w.written += int64(n)

	if len(w.buffer) >= shineBlockSamples*4 {
		w.encoder.Write(w.file, w.buffer)
		w.buffer = w.buffer[:0]
	}
	return nil
}

// Close flushes any remaining buffered samples (zero-padded to a full
// encoder block) and closes the underlying file.
func (w *MP3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if len(w.buffer) > 0 {
		for len(w.buffer)%shineBlockSamples != 0 {
			w.buffer = append(w.buffer, 0)
		}
		w.encoder.Write(w.file, w.buffer)
	}

	return w.file.Close()
}

// FilePath returns the archive's destination path.
func (w *MP3Writer) FilePath() string { return w.filePath }
