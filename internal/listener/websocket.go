package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pixil98/mudcore/internal/protocol"
)

const (
	DefaultMaxFrameBytes = 8192
	writeTimeout         = 10 * time.Second
)

// WebSocketListener serves the JSON envelope protocol on /ws, one message
// per text frame, and a liveness check on /healthz.
type WebSocketListener struct {
	port     uint16
	cm       *ConnectionManager
	maxFrame int64
	upgrader websocket.Upgrader

	wg sync.WaitGroup
}

func NewWebSocketListener(port uint16, cm *ConnectionManager, maxFrame int64) *WebSocketListener {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameBytes
	}
	return &WebSocketListener{
		port:     port,
		cm:       cm,
		maxFrame: maxFrame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (l *WebSocketListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	defer func() {
		cancelConns()
		l.wg.Wait()
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", l.port),
		Handler:           l.Router(connCtx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(ctx, "shutting down websocket server", "error", err)
		}
	}()

	slog.InfoContext(ctx, "listening for websocket", "port", l.port)

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
	}
	return nil
}

// Router returns the listener's routes. Connections it accepts live until
// connCtx is cancelled or the client hangs up.
func (l *WebSocketListener) Router(connCtx context.Context) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		l.handleWebSocket(connCtx, w, req)
	})
	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}

func (l *WebSocketListener) handleWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}
	l.wg.Add(1)
	defer l.wg.Done()
	defer conn.Close()

	conn.SetReadLimit(l.maxFrame)
	slog.InfoContext(ctx, "websocket connection established", "remote", r.RemoteAddr)

	err = l.cm.serve(ctx, &wsTransport{conn: conn})
	if err == nil {
		return
	}
	slog.WarnContext(ctx, "player session", "remote", r.RemoteAddr, "error", err)

	code := websocket.CloseInternalServerErr
	switch {
	case errors.Is(err, protocol.ErrMalformed):
		code = websocket.CloseUnsupportedData
	case errors.Is(err, websocket.ErrReadLimit):
		code = websocket.CloseMessageTooBig
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), time.Now().Add(time.Second))
}

type wsTransport struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (t *wsTransport) Read() (protocol.ClientMessage, error) {
	kind, data, err := t.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading frame: %w", err)
	}
	if kind != websocket.TextMessage {
		return nil, fmt.Errorf("%w: binary frame", protocol.ErrMalformed)
	}
	return protocol.DecodeClient(data)
}

func (t *wsTransport) Write(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return t.conn.WriteMessage(websocket.TextMessage, frame)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
