package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

const targetSampleRate = 16000

// MP3Decoder decodes MP3-framed chunks with go-mp3 (pure Go, no ffmpeg),
// downmixes go-mp3's always-stereo output to mono, and resamples to
// targetSampleRate when the source rate differs.
type MP3Decoder struct{}

// NewMP3Decoder builds an MP3Decoder. It holds no state between calls.
func NewMP3Decoder() *MP3Decoder { return &MP3Decoder{} }

// Decode treats header as the bounded structural prefix (an ID3v2 tag, if
// any) that must precede chunk to form a complete MP3 stream, and decodes
// the concatenation into mono 16kHz WAV. MP3 frames are self-synchronizing,
// so a chunk with no leading ID3 tag decodes correctly on its own.
func (d *MP3Decoder) Decode(header, chunk []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(chunk)

	dec, err := mp3.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("mp3 decoder: reading pcm: %w", err)
	}

	numSamples := len(pcm) / 4 // 16-bit stereo, interleaved
	mono := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		left := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		right := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		mono[i] = int16((int32(left) + int32(right)) / 2)
	}

	if rate := dec.SampleRate(); rate != targetSampleRate {
		mono = resampleLinear(mono, rate, targetSampleRate)
	}

	return encodeWAV(mono, targetSampleRate), nil
}

func (d *MP3Decoder) Name() string { return "mp3" }

// ExtractHeader returns chunk's leading ID3v2 tag (10-byte header plus its
// declared synchsafe size), or nil if chunk doesn't start with one. Bounding
// the cached header to the tag itself keeps CodecHeader from ever holding a
// prior chunk's audio frames.
func (d *MP3Decoder) ExtractHeader(chunk []byte) []byte {
	const id3HeaderLen = 10
	if len(chunk) < id3HeaderLen || string(chunk[0:3]) != "ID3" {
		return nil
	}

	size := synchsafeSize(chunk[6:10])
	total := id3HeaderLen + size
	if total > len(chunk) {
		total = len(chunk)
	}

	out := make([]byte, total)
	copy(out, chunk[:total])
	return out
}

// synchsafeSize decodes an ID3v2 synchsafe integer: four bytes, each using
// only its low 7 bits.
func synchsafeSize(b []byte) int {
	return int(b[0])<<21 | int(b[1])<<14 | int(b[2])<<7 | int(b[3])
}

// resampleLinear linearly interpolates mono PCM16 samples from srcRate to
// dstRate.
func resampleLinear(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(srcRate) / float64(dstRate)
	newLen := int(float64(len(samples)) / ratio)
	out := make([]int16, newLen)
	for i := 0; i < newLen; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)
		if srcIdx+1 < len(samples) {
			out[i] = int16(float64(samples[srcIdx])*(1-frac) + float64(samples[srcIdx+1])*frac)
		} else if srcIdx < len(samples) {
			out[i] = samples[srcIdx]
		}
	}
	return out
}

// encodeWAV writes a complete 16-bit mono PCM WAV file (44-byte header plus
// sample data) for samples at sampleRate.
func encodeWAV(samples []int16, sampleRate int) []byte {
	const channels = 1
	const bitsPerSample = 16

	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * channels * bitsPerSample / 8)
	blockAlign := uint16(channels * bitsPerSample / 8)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)

	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}
