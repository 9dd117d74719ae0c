package ipc

import (
	"context"
	"net"

	"github.com/hashicorp/yamux"
)

// ClientTransport is the narrow interface the client package depends on:
// send one request, receive one message (a synchronous reply or an
// asynchronous wakeup), close. Both *ClientConn (the real yamux dial) and
// *MockClient (tests) satisfy it.
type ClientTransport interface {
	Send(ctx context.Context, m *Message) error
	Recv(ctx context.Context) (*Message, error)
	Close() error
}

// ClientConn is the client side of one yamux session's single stream.
type ClientConn struct {
	session *yamux.Session
	stream  *yamux.Stream
}

// DialYamux opens a TCP connection to addr, establishes a yamux client
// session over it, and opens the one stream that will carry every call
// this process makes for the life of the connection.
func DialYamux(ctx context.Context, addr string) (*ClientConn, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	session, err := yamux.Client(raw, yamux.DefaultConfig())
	if err != nil {
		raw.Close()
		return nil, err
	}
	stream, err := session.Open()
	if err != nil {
		session.Close()
		return nil, err
	}
	return &ClientConn{session: session, stream: stream}, nil
}

// Send writes one request and blocks until it's on the wire — unlike the
// server's best-effort Conn.Send, a client must know whether its own call
// was actually sent.
func (c *ClientConn) Send(ctx context.Context, m *Message) error {
	_, err := m.WriteTo(c.stream)
	return err
}

func (c *ClientConn) Recv(ctx context.Context) (*Message, error) {
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
	}
}

func (c *ClientConn) Close() error {
	c.stream.Close()
	return c.session.Close()
}
