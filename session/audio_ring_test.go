package session

import "testing"

func fakeWAV(dataLen int) []byte {
	out := make([]byte, wavHeaderSize+dataLen)
	for i := wavHeaderSize; i < len(out); i++ {
		out[i] = byte(i)
	}
	return out
}

func TestAudioRing_AppendAccumulatesDuration(t *testing.T) {
	r := NewAudioRing(8.0)
	r.Append(fakeWAV(10), 2.0)
	r.Append(fakeWAV(10), 2.0)

	if r.Len() != 2 {
		t.Fatalf("expected 2 chunks, got %d", r.Len())
	}
	if r.TotalDuration() != 4.0 {
		t.Fatalf("expected total duration 4.0, got %v", r.TotalDuration())
	}
}

func TestAudioRing_EvictsFromFrontWhenOverCap(t *testing.T) {
	r := NewAudioRing(5.0)
	r.Append(fakeWAV(10), 2.0)
	r.Append(fakeWAV(10), 2.0)
	r.Append(fakeWAV(10), 2.0)

	if r.TotalDuration() > 5.0 {
		t.Fatalf("expected total duration <= 5.0 after eviction, got %v", r.TotalDuration())
	}
	if r.Len() != 2 {
		t.Fatalf("expected oldest chunk evicted leaving 2, got %d", r.Len())
	}
}

func TestAudioRing_NeverEvictsSoleChunk(t *testing.T) {
	r := NewAudioRing(1.0)
	r.Append(fakeWAV(10), 50.0)

	if r.Len() != 1 {
		t.Fatalf("expected the sole chunk to survive even over cap, got %d chunks", r.Len())
	}
	if r.TotalDuration() != 50.0 {
		t.Fatalf("expected duration 50.0, got %v", r.TotalDuration())
	}
}

func TestAudioRing_ConcatenateStripsSubsequentHeaders(t *testing.T) {
	r := NewAudioRing(100.0)
	r.Append(fakeWAV(10), 1.0)
	r.Append(fakeWAV(20), 1.0)

	out := r.Concatenate()
	if len(out) != wavHeaderSize+10+20 {
		t.Fatalf("expected concatenated length %d, got %d", wavHeaderSize+10+20, len(out))
	}
}

func TestAudioRing_ConcatenateSingleChunkUnchanged(t *testing.T) {
	r := NewAudioRing(100.0)
	wav := fakeWAV(10)
	r.Append(wav, 1.0)

	out := r.Concatenate()
	if len(out) != len(wav) {
		t.Fatalf("expected single chunk returned as-is, got length %d", len(out))
	}
}

func TestAudioRing_ConcatenateEmptyRing(t *testing.T) {
	r := NewAudioRing(100.0)
	if out := r.Concatenate(); out != nil {
		t.Fatalf("expected nil for empty ring, got %v", out)
	}
}

func TestAudioRing_ClearResetsState(t *testing.T) {
	r := NewAudioRing(100.0)
	r.Append(fakeWAV(10), 3.0)
	r.Clear()

	if r.Len() != 0 || r.TotalDuration() != 0 {
		t.Fatalf("expected empty ring after Clear, got len=%d duration=%v", r.Len(), r.TotalDuration())
	}
}
