package listener

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-testutil"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/protocol"
)

// syncBus delivers every publish to its subscriber on the publishing
// goroutine.
type syncBus struct {
	mu   sync.Mutex
	subs map[string]func([]byte)
}

func newSyncBus() *syncBus {
	return &syncBus{subs: make(map[string]func([]byte))}
}

func (b *syncBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	h := b.subs[subject]
	b.mu.Unlock()
	if h != nil {
		h(data)
	}
	return nil
}

func (b *syncBus) Subscribe(subject string, handler func([]byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[subject] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, subject)
	}, nil
}

func (b *syncBus) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// echoDispatcher answers pings and records everything else.
type echoDispatcher struct {
	mu           sync.Mutex
	connected    int
	disconnected int
	handled      []string
}

func (d *echoDispatcher) Connect(*game.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected++
}

func (d *echoDispatcher) Disconnect(context.Context, *game.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disconnected++
}

func (d *echoDispatcher) Handle(_ context.Context, s *game.Session, msg protocol.ClientMessage) {
	d.mu.Lock()
	d.handled = append(d.handled, msg.Kind())
	d.mu.Unlock()
	if p, ok := msg.(protocol.Ping); ok {
		s.Send(protocol.Pong{Nonce: p.Nonce})
	}
}

func (d *echoDispatcher) disconnects() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disconnected
}

type readResult struct {
	msg protocol.ClientMessage
	err error
}

// scriptedTransport replays reads then hangs up.
type scriptedTransport struct {
	reads   []readResult
	written []protocol.ServerMessage
	closed  bool
}

func (t *scriptedTransport) Read() (protocol.ClientMessage, error) {
	if len(t.reads) == 0 {
		return nil, io.EOF
	}
	r := t.reads[0]
	t.reads = t.reads[1:]
	return r.msg, r.err
}

func (t *scriptedTransport) Write(frame []byte) error {
	msg, err := protocol.DecodeServer(frame)
	if err != nil {
		return err
	}
	t.written = append(t.written, msg)
	return nil
}

func (t *scriptedTransport) Close() error {
	t.closed = true
	return nil
}

func (t *scriptedTransport) errorCodes() []string {
	var out []string
	for _, m := range t.written {
		if e, ok := m.(protocol.Error); ok {
			out = append(out, e.Code)
		}
	}
	return out
}

func TestConnectionManager_Serve(t *testing.T) {
	tests := map[string]struct {
		reads      []readResult
		burst      int
		expHandled []string
		expCodes   []string
		expErr     string
	}{
		"handles commands in order": {
			reads:      []readResult{{msg: protocol.Look{}}, {msg: protocol.Say{Text: "hi"}}},
			burst:      5,
			expHandled: []string{protocol.KindLook, protocol.KindSay},
		},
		"blank lines are skipped": {
			reads:      []readResult{{}, {msg: protocol.Look{}}},
			burst:      1,
			expHandled: []string{protocol.KindLook},
		},
		"usage errors are reported": {
			reads:    []readResult{{err: &protocol.UsageError{Message: "Usage: say <message>"}}},
			burst:    5,
			expCodes: []string{protocol.CodeInvalidInput},
		},
		"admits exactly the burst": {
			reads:      []readResult{{msg: protocol.Look{}}, {msg: protocol.Look{}}, {msg: protocol.Look{}}},
			burst:      2,
			expHandled: []string{protocol.KindLook, protocol.KindLook},
			expCodes:   []string{protocol.CodeRateLimited},
		},
		"malformed input ends the connection": {
			reads:  []readResult{{err: protocol.ErrMalformed}, {msg: protocol.Look{}}},
			burst:  5,
			expErr: "malformed frame",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := &echoDispatcher{}
			bus := newSyncBus()
			cm := NewConnectionManager(d, bus, WithRateLimit(tt.burst, 0.001), WithGreeting("Welcome."))
			tr := &scriptedTransport{reads: tt.reads}

			err := cm.serve(context.Background(), tr)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "handled", strings.Join(d.handled, ","), strings.Join(tt.expHandled, ","))
			testutil.AssertEqual(t, "codes", strings.Join(tr.errorCodes(), ","), strings.Join(tt.expCodes, ","))
			testutil.AssertEqual(t, "connected", d.connected, 1)
			testutil.AssertEqual(t, "disconnected", d.disconnected, 1)
			testutil.AssertEqual(t, "subscriptions", bus.subscribers(), 0)

			greeting, ok := tr.written[0].(protocol.System)
			if !ok {
				t.Fatalf("expected a greeting first, got %T", tr.written[0])
			}
			testutil.AssertEqual(t, "greeting", greeting.Message, "Welcome.")
		})
	}
}

type rw struct {
	io.Reader
	io.Writer
}

func TestCRLFReadWriter(t *testing.T) {
	tests := map[string]struct {
		in     string
		expIn  string
		out    string
		expOut string
	}{
		"telnet line endings": {
			in:     "look\r\nsay hi\r\n",
			expIn:  "look\nsay hi\n",
			out:    "Town Square\nExits: east\n",
			expOut: "Town Square\r\nExits: east\r\n",
		},
		"ssh pty carriage returns": {
			in:     "look\r",
			expIn:  "look\n",
			out:    "ok",
			expOut: "ok",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			crlf := newCRLFReadWriter(rw{strings.NewReader(tt.in), &out})

			got, err := io.ReadAll(crlf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "read", string(got), tt.expIn)

			n, err := io.WriteString(crlf, tt.out)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "written", n, len(tt.out))
			testutil.AssertEqual(t, "sent", out.String(), tt.expOut)
		})
	}
}

func TestLineTransport(t *testing.T) {
	var out bytes.Buffer
	tr := newLineTransport(rw{strings.NewReader("look\n\nmove\nn\n"), &out}, nil, 1024, 20)

	msg, err := tr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "look", msg.Kind(), protocol.KindLook)

	msg, err = tr.Read()
	if err != nil || msg != nil {
		t.Fatalf("expected a blank line to be skipped, got %v, %v", msg, err)
	}

	_, err = tr.Read()
	var ue *protocol.UsageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected a usage error, got %v", err)
	}

	msg, err = tr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "move", msg, protocol.ClientMessage(protocol.Move{Direction: "north"}))

	_, err = tr.Read()
	testutil.AssertEqual(t, "eof", errors.Is(err, io.EOF), true)

	frame, err := protocol.Encode(protocol.System{Message: "The quick brown fox jumps over the lazy dog."})
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if err := tr.Write(frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if len(line) > 20 {
			t.Errorf("line %q is wider than 20", line)
		}
	}

	out.Reset()
	frame, _ = protocol.Encode(protocol.MapData{Center: "a"})
	if err := tr.Write(frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "map data", out.String(), "")
}

func TestLineTransport_Oversize(t *testing.T) {
	tr := newLineTransport(rw{strings.NewReader(strings.Repeat("x", 64) + "\n"), io.Discard}, nil, 16, 80)
	_, err := tr.Read()
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected an error for an oversize line, got %v", err)
	}
}

func newWebSocketServer(t *testing.T, maxFrame int64) (*httptest.Server, *echoDispatcher) {
	t.Helper()
	d := &echoDispatcher{}
	l := NewWebSocketListener(0, NewConnectionManager(d, newSyncBus()), maxFrame)

	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(l.Router(ctx))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, d
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketListener_Ping(t *testing.T) {
	srv, _ := newWebSocketServer(t, 0)
	conn := dial(t, srv)

	frame, err := protocol.EncodeClient(protocol.Ping{Nonce: 7})
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("writing: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	msg, err := protocol.DecodeServer(data)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	testutil.AssertEqual(t, "pong", msg, protocol.ServerMessage(protocol.Pong{Nonce: 7}))
}

func TestWebSocketListener_TerminatesBadFrames(t *testing.T) {
	tests := map[string]struct {
		frame   []byte
		expCode int
	}{
		"oversize": {
			frame:   []byte(`{"type":"say","data":{"text":"` + strings.Repeat("x", 256) + `"}}`),
			expCode: websocket.CloseMessageTooBig,
		},
		"malformed": {
			frame:   []byte(`{not json`),
			expCode: websocket.CloseUnsupportedData,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv, d := newWebSocketServer(t, 128)
			conn := dial(t, srv)

			if err := conn.WriteMessage(websocket.TextMessage, tt.frame); err != nil {
				t.Fatalf("writing: %v", err)
			}

			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, _, err := conn.ReadMessage()
			if !websocket.IsCloseError(err, tt.expCode) {
				t.Fatalf("expected close %d, got %v", tt.expCode, err)
			}

			deadline := time.Now().Add(5 * time.Second)
			for d.disconnects() == 0 && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}
			testutil.AssertEqual(t, "disconnected", d.disconnects(), 1)
		})
	}
}

func TestWebSocketListener_Healthz(t *testing.T) {
	srv, _ := newWebSocketServer(t, 0)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("requesting: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	testutil.AssertEqual(t, "status", resp.StatusCode, http.StatusOK)
	testutil.AssertEqual(t, "body", string(body), "ok\n")
}
