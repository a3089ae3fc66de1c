// Package session implements the per-session state machine (C6) and its
// bounded audio ring (C7). Only the chunk pipeline mutates a Session, one
// chunk at a time; the Manager map itself needs locking only on
// create/delete/lookup.
package session

import (
	"sync"

	"tartil/corpus"
)

// Session is the per-user state: anchor position, mode, confidence streak,
// cached codec header, and the audio ring.
//
// Created on session open, destroyed on session close. Monotone
// non-decreasing GlobalWordPos over the life of a session unless an
// explicit ResetProgress is applied.
type Session struct {
	ID string

	mu sync.Mutex

	GlobalWordPos  uint32
	LastConfidence float64
	Mode           corpus.Mode
	LowConfStreak  uint16
	CodecHeader    []byte
	Ring           *AudioRing
	CurrentPage    *uint32
	RollingConfAvg float64 // gonum/stat rolling mean over the last confidenceWindowCap chunks; telemetry only

	confWindow []float64
}

// New creates a fresh session in the initial state: tracking mode,
// global_word_pos=0, empty codec header, empty ring.
func New(id string, maxBufferSeconds float64) *Session {
	return &Session{
		ID:   id,
		Mode: corpus.ModeTracking,
		Ring: NewAudioRing(maxBufferSeconds),
	}
}

// Lock/Unlock serialize all operations on this session's state so two
// chunks of the same session never run the align/update step concurrently.
// Chunks for different sessions use different Sessions and are independent.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// ResetProgress clears anchor, mode, streak, codec header, and audio ring -
// a full fresh start, restored from the original prototype's
// reset_session_progress (which clears the webm header and audio buffer
// alongside the anchor, not just the position).
func (s *Session) ResetProgress() {
	s.GlobalWordPos = 0
	s.LastConfidence = 0
	s.Mode = corpus.ModeTracking
	s.LowConfStreak = 0
	s.CodecHeader = nil
	s.RollingConfAvg = 0
	s.confWindow = nil
	s.Ring.Clear()
}

// Snapshot is a read-only view of a session's state for monitoring, grounded
// on the original prototype's get_session_info/asdict(state) debug dump.
type Snapshot struct {
	ID             string
	GlobalWordPos  uint32
	LastConfidence float64
	Mode           corpus.Mode
	LowConfStreak  uint16
	RingChunks     int
	RingDuration   float64
}

// Snapshot captures the session's current state without mutating it.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.ID,
		GlobalWordPos:  s.GlobalWordPos,
		LastConfidence: s.LastConfidence,
		Mode:           s.Mode,
		LowConfStreak:  s.LowConfStreak,
		RingChunks:     s.Ring.Len(),
		RingDuration:   s.Ring.TotalDuration(),
	}
}
