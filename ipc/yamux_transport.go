package ipc

import (
	"context"
	"net"

	"github.com/hashicorp/go-hclog"
	uuid "github.com/hashicorp/go-uuid"
	"github.com/hashicorp/yamux"

	"github.com/minix3/rwsemd/rwsem"
)

// YamuxTransport is the real Transport: one accepted TCP connection
// becomes one yamux session, and the client's single stream on that
// session carries the whole request/async-reply protocol for its
// lifetime. The session (not the stream, not the raw TCP connection) is
// the natural stand-in for "endpoint" — it is the thing the original
// kernel hands the IPC server as endpoint_t, a stable identifier for one
// client process for as long as it's connected.
type YamuxTransport struct {
	ln     net.Listener
	logger hclog.Logger

	accept chan Conn
	closed chan struct{}
}

// NewYamuxTransport wraps an already-listening net.Listener (typically
// *net.TCPListener) and starts accepting sessions in the background.
func NewYamuxTransport(ln net.Listener, logger hclog.Logger) *YamuxTransport {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	t := &YamuxTransport{
		ln:     ln,
		logger: logger.Named("transport"),
		accept: make(chan Conn, 16),
		closed: make(chan struct{}),
	}
	go t.acceptLoop()
	return t
}

func (t *YamuxTransport) acceptLoop() {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			select {
			case <-t.closed:
			default:
				t.logger.Error("listener accept failed", "error", err)
			}
			return
		}
		go t.handshake(conn)
	}
}

func (t *YamuxTransport) handshake(raw net.Conn) {
	session, err := yamux.Server(raw, yamux.DefaultConfig())
	if err != nil {
		t.logger.Warn("yamux session setup failed", "error", err)
		raw.Close()
		return
	}
	stream, err := session.AcceptStream()
	if err != nil {
		t.logger.Warn("yamux stream accept failed", "error", err)
		session.Close()
		return
	}
	id, err := uuid.GenerateUUID()
	if err != nil {
		t.logger.Error("endpoint id generation failed", "error", err)
		session.Close()
		return
	}

	c := &yamuxConn{
		endpoint: rwsem.Endpoint(id),
		session:  session,
		stream:   stream,
		sendCh:   make(chan *Message, 32),
		done:     make(chan struct{}),
	}
	go c.writeLoop()

	select {
	case t.accept <- c:
	case <-t.closed:
		c.Close()
	}
}

func (t *YamuxTransport) Accept(ctx context.Context) (Conn, error) {
	select {
	case c := <-t.accept:
		return c, nil
	case <-t.closed:
		return nil, context.Canceled
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *YamuxTransport) Close() error {
	select {
	case <-t.closed:
	default:
		close(t.closed)
	}
	return t.ln.Close()
}

type yamuxConn struct {
	endpoint rwsem.Endpoint
	session  *yamux.Session
	stream   *yamux.Stream
	sendCh   chan *Message
	done     chan struct{}
}

func (c *yamuxConn) Endpoint() rwsem.Endpoint { return c.endpoint }

func (c *yamuxConn) Recv(ctx context.Context) (*Message, error) {
	type result struct {
		m   *Message
		err error
	}
	out := make(chan result, 1)
	go func() {
		m, err := ReadMessage(c.stream)
		out <- result{m, err}
	}()
	select {
	case r := <-out:
		return r.m, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, context.Canceled
	}
}

// Send queues m for delivery without blocking the caller. A full queue
// means the peer isn't draining fast enough; per spec.md §5 that's a
// tolerated drop, not an error.
func (c *yamuxConn) Send(m *Message) {
	select {
	case c.sendCh <- m:
	default:
	}
}

func (c *yamuxConn) writeLoop() {
	for {
		select {
		case m := <-c.sendCh:
			if _, err := m.WriteTo(c.stream); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *yamuxConn) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.stream.Close()
	return c.session.Close()
}
