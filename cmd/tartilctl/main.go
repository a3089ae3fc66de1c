// Command tartilctl is an operator tool that connects to a running
// backend's gRPC control stream and lists live sessions in a fixed-width
// table, padding Arabic and other wide-rune text correctly.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
)

type jsonCodec struct{}

func (jsonCodec) Name() string                      { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// message mirrors the subset of internal/api.Message this CLI needs; it
// stays local rather than importing the api package so the binary doesn't
// pull in the server's HTTP/websocket stack.
type message struct {
	Type     string `json:"type"`
	Sessions []struct {
		ID             string  `json:"id"`
		GlobalWordPos  uint32  `json:"globalWordPos"`
		Mode           string  `json:"mode"`
		LastConfidence float64 `json:"lastConfidence"`
		LowConfStreak  uint16  `json:"lowConfStreak"`
		RingChunks     int     `json:"ringChunks"`
		RingDuration   float64 `json:"ringDuration"`
	} `json:"sessions,omitempty"`
}

func main() {
	addr := flag.String("grpc-addr", "unix:/tmp/tartil-grpc.sock", "backend gRPC control address")
	flag.Parse()

	conn, err := grpc.Dial(
		*addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
		grpc.WithContextDialer(dialer),
	)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := conn.NewStream(ctx, &grpc.StreamDesc{
		StreamName:    "Stream",
		ServerStreams: true,
		ClientStreams: true,
	}, "/tartil.Control/Stream")
	if err != nil {
		log.Fatalf("open stream: %v", err)
	}

	if err := sendJSON(stream, message{Type: "get_sessions"}); err != nil {
		log.Fatalf("send get_sessions: %v", err)
	}

	var resp message
	if err := stream.RecvMsg(&resp); err != nil {
		log.Fatalf("recv: %v", err)
	}

	printTable(resp)
}

func dialer(ctx context.Context, addr string) (net.Conn, error) {
	if strings.HasPrefix(addr, "unix:") {
		return net.DialTimeout("unix", strings.TrimPrefix(addr, "unix:"), 3*time.Second)
	}
	return net.DialTimeout("tcp", addr, 3*time.Second)
}

func sendJSON(stream grpc.ClientStream, msg message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var any interface{}
	if err := json.Unmarshal(raw, &any); err != nil {
		return err
	}
	return stream.SendMsg(any)
}

var columns = []struct {
	header string
	width  int
}{
	{"SESSION", 24},
	{"WORD POS", 10},
	{"MODE", 10},
	{"CONFIDENCE", 12},
	{"STREAK", 8},
	{"RING", 14},
}

func printTable(resp message) {
	printRow(func(i int) string { return columns[i].header })
	if len(resp.Sessions) == 0 {
		fmt.Println("(no live sessions)")
		return
	}
	for _, sess := range resp.Sessions {
		printRow(func(i int) string {
			switch i {
			case 0:
				return sess.ID
			case 1:
				return fmt.Sprintf("%d", sess.GlobalWordPos)
			case 2:
				return sess.Mode
			case 3:
				return fmt.Sprintf("%.2f", sess.LastConfidence)
			case 4:
				return fmt.Sprintf("%d", sess.LowConfStreak)
			default:
				return fmt.Sprintf("%d/%.1fs", sess.RingChunks, sess.RingDuration)
			}
		})
	}
}

func printRow(cell func(i int) string) {
	var b strings.Builder
	for i, col := range columns {
		text := cell(i)
		b.WriteString(padRight(text, col.width))
		if i < len(columns)-1 {
			b.WriteString(" ")
		}
	}
	fmt.Println(b.String())
}

// padRight pads text to width display columns using go-runewidth, so
// Arabic session titles and other wide runes don't throw the table's
// alignment off.
func padRight(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	return text + strings.Repeat(" ", width-w)
}
