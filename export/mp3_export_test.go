package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMP3Writer_WriteWAVAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mp3")

	w, err := NewMP3Writer(path, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wav := make([]byte, 44+shineBlockSamples*4*2)
	if err := w.WriteWAV(wav); err != nil {
		t.Fatalf("unexpected error writing wav: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error closing: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected archive file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty mp3 archive")
	}
}

func TestMP3Writer_RejectsWriteAfterClose(t *testing.T) {
	dir := t.TempDir()
	w, err := NewMP3Writer(filepath.Join(dir, "out.mp3"), 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Close()

	if err := w.WriteWAV(make([]byte, 100)); err == nil {
		t.Fatalf("expected error writing after close")
	}
}
