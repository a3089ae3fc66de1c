package api

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"tartil/align"
	"tartil/corpus"
	"tartil/decode"
	"tartil/internal/config"
	"tartil/pipeline"
	"tartil/session"
)

// jsonClient is a lightweight gRPC JSON client for the Control stream.
type jsonClient struct {
	conn   *grpc.ClientConn
	stream grpc.ClientStream
}

func newJSONClient(t *testing.T, addr string) *jsonClient {
	t.Helper()

	conn, err := grpc.Dial(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
		grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
			if len(addr) > 5 && addr[:5] == "unix:" {
				return net.DialTimeout("unix", addr[5:], 3*time.Second)
			}
			return net.DialTimeout("tcp", addr, 3*time.Second)
		}),
	)
	if err != nil {
		t.Fatalf("dial grpc: %v", err)
	}

	stream, err := conn.NewStream(context.Background(), &_Control_serviceDesc.Streams[0], "/tartil.Control/Stream")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}

	return &jsonClient{conn: conn, stream: stream}
}

func (c *jsonClient) send(msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var any interface{}
	if err := json.Unmarshal(raw, &any); err != nil {
		return err
	}
	return c.stream.SendMsg(any)
}

func (c *jsonClient) recv(timeout time.Duration) (Message, error) {
	var msg Message
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	recvDone := make(chan error, 1)
	go func() { recvDone <- c.stream.RecvMsg(&msg) }()
	select {
	case err := <-recvDone:
		return msg, err
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *jsonClient) close() {
	_ = c.stream.CloseSend()
	_ = c.conn.Close()
}

type fakeTranscriber struct{ text string }

func (f *fakeTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	return f.text, nil
}
func (f *fakeTranscriber) Name() string { return "fake" }
func (f *fakeTranscriber) Close() error { return nil }

// startTestServer starts a minimal server bound to a unix socket.
func startTestServer(t *testing.T, socketPath string) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:     "0",
		GRPCAddr: "unix:" + socketPath,
	}

	idx, err := corpus.New([]corpus.Verse{
		{ID: 1, SuraNo: 1, Page: 1, Words: []string{"بسم", "الله", "الرحمن", "الرحيم"}},
	})
	if err != nil {
		t.Fatalf("building index: %v", err)
	}

	sessMgr := session.NewManager(8.0)
	engine := align.NewEngine(align.DefaultConfig(), idx)
	ctrl := session.NewController(align.DefaultConfig())
	pl := pipeline.New(decode.NewMP3Decoder(), &fakeTranscriber{text: "بسم الله الرحمن الرحيم"}, engine, ctrl)

	s := NewServer(cfg, sessMgr, pl)

	go s.startGRPCServer()
	time.Sleep(300 * time.Millisecond) // let the socket get created
	return s
}

func TestControlStream_SessionLifecycle(t *testing.T) {
	socket := "/tmp/tartil-test.sock"

	s := startTestServer(t, socket)
	client := newJSONClient(t, s.Config.GRPCAddr)
	defer client.close()

	if err := client.send(Message{Type: "session_open", SessionID: "s1"}); err != nil {
		t.Fatalf("send session_open: %v", err)
	}

	msg, err := client.recv(2 * time.Second)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if msg.Type != "session_opened" || msg.SessionID != "s1" {
		t.Fatalf("expected session_opened for s1, got %+v", msg)
	}

	if err := client.send(Message{Type: "get_sessions"}); err != nil {
		t.Fatalf("send get_sessions: %v", err)
	}
	msg, err = client.recv(2 * time.Second)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if msg.Type != "sessions_list" || len(msg.Sessions) != 1 {
		t.Fatalf("expected sessions_list with 1 session, got %+v", msg)
	}
}
