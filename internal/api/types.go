package api

// Message is the single envelope shared by both transports (WebSocket JSON
// frames and the gRPC jsonCodec stream). Type discriminates which fields are
// meaningful, the same pattern the browser-facing control channel has always
// used.
type Message struct {
	Type string `json:"type"`

	// Inbound: session_open, session_close, reset_progress, audio_chunk.
	SessionID   string  `json:"sessionId,omitempty"`
	Audio       []byte  `json:"audio,omitempty"`
	CurrentPage *uint32 `json:"currentPage,omitempty"`

	// Outbound: word_result.
	AyaID         uint32  `json:"ayaId,omitempty"`
	WordIndex     uint16  `json:"wordIndex,omitempty"`
	IsCorrect     bool    `json:"isCorrect,omitempty"`
	Similarity    float64 `json:"similarity,omitempty"`
	AlignmentType string  `json:"alignmentType,omitempty"`
	SpokenWord    string  `json:"spokenWord,omitempty"`
	ExpectedWord  string  `json:"expectedWord,omitempty"`

	// Outbound: chunk_done.
	GlobalProgress uint32  `json:"globalProgress,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	Mode           string  `json:"mode,omitempty"`
	SegmentScore   float64 `json:"segmentScore,omitempty"`
	MatchesCount   int     `json:"matchesCount,omitempty"`
	ProcessingMs   int64   `json:"processingMs,omitempty"`

	// Outbound: error forms.
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	// Outbound: sessions_list (operator tooling, cmd/tartilctl).
	Sessions []SessionInfo `json:"sessions,omitempty"`
}

// SessionInfo is the read-only session summary the operator CLI lists.
type SessionInfo struct {
	ID             string  `json:"id"`
	GlobalWordPos  uint32  `json:"globalWordPos"`
	Mode           string  `json:"mode"`
	LastConfidence float64 `json:"lastConfidence"`
	LowConfStreak  uint16  `json:"lowConfStreak"`
	RingChunks     int     `json:"ringChunks"`
	RingDuration   float64 `json:"ringDuration"`
}
