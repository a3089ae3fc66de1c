// Package decode adapts the external decoder collaborator boundary:
// something that turns one audio chunk, plus an optional cached container
// header, into 16kHz mono WAV bytes ready for the transcriber and the
// session's audio ring.
package decode

// Decoder turns a raw audio chunk into 16kHz mono PCM WAV, complete with a
// 44-byte RIFF header. header carries only the small, bounded structural
// prefix the codec emits once at the start of a stream (e.g. an ID3v2 tag);
// it is never a full prior audio chunk. Callers that have no header yet
// pass nil.
type Decoder interface {
	Decode(header, chunk []byte) (wav []byte, err error)

	// ExtractHeader inspects chunk (normally the first chunk of a session)
	// and returns the leading structural-header bytes it should be cached
	// and replayed ahead of every subsequent chunk, or nil if chunk carries
	// no such header.
	ExtractHeader(chunk []byte) []byte

	// Name identifies the codec for logging.
	Name() string
}
