package listener

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/pixil98/mudcore/internal/display"
	"github.com/pixil98/mudcore/internal/protocol"
)

// lineTransport speaks the text command language: one command per line in,
// rendered and wrapped text out.
type lineTransport struct {
	scanner *bufio.Scanner
	w       io.Writer
	c       io.Closer
	width   int

	mu sync.Mutex
}

func newLineTransport(rw io.ReadWriter, c io.Closer, maxLine, width int) *lineTransport {
	sc := bufio.NewScanner(rw)
	sc.Buffer(make([]byte, 0, min(maxLine, 1024)), maxLine)
	return &lineTransport{scanner: sc, w: rw, c: c, width: width}
}

func (t *lineTransport) Read() (protocol.ClientMessage, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading line: %w", err)
		}
		return nil, io.EOF
	}
	return protocol.ParseCommand(t.scanner.Text())
}

func (t *lineTransport) Write(frame []byte) error {
	msg, err := protocol.DecodeServer(frame)
	if err != nil {
		return err
	}
	text := display.Render(msg)
	if text == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = io.WriteString(t.w, display.WrapTo(text, t.width)+"\n")
	return err
}

func (t *lineTransport) Close() error {
	if t.c == nil {
		return nil
	}
	return t.c.Close()
}
