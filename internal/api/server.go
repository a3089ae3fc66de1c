package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gorilla/websocket"

	"tartil/export"
	"tartil/internal/config"
	"tartil/pipeline"
	"tartil/session"
)

// archiveSampleRate matches the fixed output rate decode.MP3Decoder
// produces for every session, which is what Session.Ring accumulates.
const archiveSampleRate = 16000

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type sendFunc func(Message) error

// transportClient unifies the two transports a Control message can arrive
// over: a WebSocket connection from the browser, or a gRPC stream from the
// operator CLI / a native client.
type transportClient interface {
	Send(Message) error
	Close() error
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *wsClient) Close() error { return c.conn.Close() }

type grpcClient struct {
	stream Control_StreamServer
	mu     sync.Mutex
}

func (c *grpcClient) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream.Send(&msg)
}

func (c *grpcClient) Close() error { return nil }

// Server is the transport layer: it terminates WebSocket and gRPC
// connections, dispatches each inbound event to the session manager and
// chunk pipeline, and streams results back to whichever client sent the
// event.
type Server struct {
	Config     *config.Config
	SessionMgr *session.Manager
	Pipeline   *pipeline.Pipeline

	clients map[transportClient]bool
	mu      sync.Mutex
}

// NewServer wires a Server from its already-constructed collaborators.
func NewServer(cfg *config.Config, sessMgr *session.Manager, pl *pipeline.Pipeline) *Server {
	return &Server{
		Config:     cfg,
		SessionMgr: sessMgr,
		Pipeline:   pl,
		clients:    make(map[transportClient]bool),
	}
}

// Start runs the HTTP (WebSocket) listener on the foreground goroutine and
// the gRPC control-plane listener in the background.
func (s *Server) Start() {
	go s.startGRPCServer()

	http.HandleFunc("/ws", s.handleWebSocket)

	log.Printf("tartil listening on HTTP :%s and gRPC %s", s.Config.Port, s.Config.GRPCAddr)
	if err := http.ListenAndServe(":"+s.Config.Port, nil); err != nil {
		log.Fatal("ListenAndServe:", err)
	}
}

func (s *Server) addClient(c transportClient) {
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
}

func (s *Server) removeClient(c transportClient) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	_ = c.Close()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade:", err)
		return
	}

	client := &wsClient{conn: conn}
	s.addClient(client)
	defer s.removeClient(client)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("Read:", err)
			break
		}
		s.processMessage(client.Send, msg)
	}
}

// Stream implements the gRPC bidirectional stream, mirroring WebSocket
// behavior for the operator CLI and other native clients.
func (s *Server) Stream(stream Control_StreamServer) error {
	client := &grpcClient{stream: stream}
	s.addClient(client)
	defer s.removeClient(client)

	for {
		msg, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			log.Printf("gRPC recv error: %v", err)
			return err
		}
		if msg == nil {
			continue
		}
		s.processMessage(client.Send, *msg)
	}
}

// processMessage dispatches one inbound event. Per-session state is
// serialized by locking the Session for the duration of the chunk pipeline
// call; different sessions proceed independently.
func (s *Server) processMessage(send sendFunc, msg Message) {
	switch msg.Type {
	case "session_open":
		sess := s.SessionMgr.Open(msg.SessionID)
		send(Message{Type: "session_opened", SessionID: sess.ID})

	case "session_close":
		s.archiveSession(msg.SessionID)
		s.SessionMgr.Close(msg.SessionID)

	case "reset_progress":
		sess, ok := s.SessionMgr.Get(msg.SessionID)
		if !ok {
			return
		}
		sess.Lock()
		sess.ResetProgress()
		sess.Unlock()

	case "audio_chunk":
		sess := s.SessionMgr.GetOrCreate(msg.SessionID)
		sess.Lock()
		outcome := s.Pipeline.ProcessChunk(context.Background(), sess, msg.Audio, msg.CurrentPage)
		sess.Unlock()
		s.emitOutcome(send, outcome)

	case "get_sessions":
		send(Message{Type: "sessions_list", Sessions: toSessionInfos(s.SessionMgr.Snapshots())})

	default:
		send(Message{Type: "error", Error: "unknown_message_type", Message: msg.Type})
	}
}

// archiveSession writes id's accumulated ring audio to Config.ArchiveDir as
// an MP3 file, if archival is enabled. Called before the session is closed
// and its ring discarded.
func (s *Server) archiveSession(id string) {
	if s.Config.ArchiveDir == "" {
		return
	}
	sess, ok := s.SessionMgr.Get(id)
	if !ok {
		return
	}

	sess.Lock()
	wav := sess.Ring.Concatenate()
	sess.Unlock()
	if len(wav) == 0 {
		return
	}

	path := filepath.Join(s.Config.ArchiveDir, fmt.Sprintf("%s.mp3", id))
	w, err := export.NewMP3Writer(path, archiveSampleRate)
	if err != nil {
		log.Printf("archive session %s: %v", id, err)
		return
	}
	if err := w.WriteWAV(wav); err != nil {
		log.Printf("archive session %s: write: %v", id, err)
	}
	if err := w.Close(); err != nil {
		log.Printf("archive session %s: close: %v", id, err)
	}
}

// emitOutcome sends one word_result per match carrying a reference word,
// then the chunk_done summary, or the chunk's error form.
func (s *Server) emitOutcome(send sendFunc, outcome pipeline.Outcome) {
	if outcome.Err != nil {
		send(Message{Type: "error", Error: string(outcome.Err.Kind), Message: outcome.Err.Message})
		return
	}

	for _, wr := range outcome.WordResults {
		send(Message{
			Type:          "word_result",
			AyaID:         wr.AyaID,
			WordIndex:     wr.WordIndex,
			IsCorrect:     wr.IsCorrect,
			Similarity:    wr.Similarity,
			AlignmentType: wr.AlignmentType,
			SpokenWord:    wr.SpokenWord,
			ExpectedWord:  wr.ExpectedWord,
		})
	}

	if cd := outcome.ChunkDone; cd != nil {
		send(Message{
			Type:           "chunk_done",
			GlobalProgress: cd.GlobalProgress,
			Confidence:     cd.Confidence,
			Mode:           cd.Mode,
			SegmentScore:   cd.SegmentScore,
			MatchesCount:   cd.MatchesCount,
			ProcessingMs:   cd.ProcessingTime.Milliseconds(),
		})
	}
}

func toSessionInfos(snaps []session.Snapshot) []SessionInfo {
	out := make([]SessionInfo, len(snaps))
	for i, sn := range snaps {
		out[i] = SessionInfo{
			ID:             sn.ID,
			GlobalWordPos:  sn.GlobalWordPos,
			Mode:           string(sn.Mode),
			LastConfidence: sn.LastConfidence,
			LowConfStreak:  sn.LowConfStreak,
			RingChunks:     sn.RingChunks,
			RingDuration:   sn.RingDuration,
		}
	}
	return out
}
