package decode

import "testing"

func TestEncodeWAV_HeaderFields(t *testing.T) {
	samples := []int16{1, 2, 3, 4}
	wav := encodeWAV(samples, 16000)

	if len(wav) != 44+len(samples)*2 {
		t.Fatalf("expected length %d, got %d", 44+len(samples)*2, len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("expected RIFF/WAVE markers, got %q/%q", wav[0:4], wav[8:12])
	}
	if string(wav[36:40]) != "data" {
		t.Fatalf("expected data marker at offset 36, got %q", wav[36:40])
	}
}

func TestResampleLinear_SameRateIsNoop(t *testing.T) {
	samples := []int16{1, 2, 3}
	out := resampleLinear(samples, 16000, 16000)
	if len(out) != len(samples) {
		t.Fatalf("expected unchanged length for identical rates")
	}
}

func TestResampleLinear_Downsamples(t *testing.T) {
	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = int16(i)
	}
	out := resampleLinear(samples, 48000, 16000)
	if len(out) == 0 || len(out) >= len(samples) {
		t.Fatalf("expected fewer samples after downsampling, got %d from %d", len(out), len(samples))
	}
}

func TestExtractHeader_NoID3TagReturnsNil(t *testing.T) {
	d := NewMP3Decoder()
	chunk := []byte{0xFF, 0xFB, 0x90, 0x00, 0x01, 0x02, 0x03, 0x04}
	if got := d.ExtractHeader(chunk); got != nil {
		t.Fatalf("expected nil header for non-ID3 chunk, got %v", got)
	}
}

func TestExtractHeader_ID3TagIsBoundedToItsDeclaredSize(t *testing.T) {
	d := NewMP3Decoder()
	tagBody := []byte{0x01, 0x02, 0x03, 0x04, 0x05} // 5 bytes of tag payload
	header := []byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05}
	audio := []byte{0xFF, 0xFB, 0x90, 0x00, 0xAA, 0xBB, 0xCC}

	chunk := append(append(append([]byte{}, header...), tagBody...), audio...)
	got := d.ExtractHeader(chunk)

	wantLen := len(header) + len(tagBody)
	if len(got) != wantLen {
		t.Fatalf("expected header bounded to tag size %d, got %d bytes", wantLen, len(got))
	}
	if string(got) == string(chunk) {
		t.Fatalf("extracted header must not include trailing audio bytes")
	}
}
