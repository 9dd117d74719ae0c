package ipc

import (
	"context"

	"github.com/minix3/rwsemd/rwsem"
)

// MockTransport is an in-memory Transport for tests: Dial creates a
// connected client/server pair with no network involved, so dispatcher
// and client tests can exercise the full request/async-reply protocol
// without a real yamux session.
type MockTransport struct {
	accept chan Conn
	closed chan struct{}
}

// NewMockTransport builds an unconnected MockTransport; use Dial to create
// client/server connection pairs against it.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		accept: make(chan Conn, 16),
		closed: make(chan struct{}),
	}
}

func (t *MockTransport) Accept(ctx context.Context) (Conn, error) {
	select {
	case c := <-t.accept:
		return c, nil
	case <-t.closed:
		return nil, context.Canceled
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *MockTransport) Close() error {
	select {
	case <-t.closed:
	default:
		close(t.closed)
	}
	return nil
}

// Dial creates a connected pair and queues the server side for the next
// Accept call. It returns the client-facing handle the test drives calls
// through.
func (t *MockTransport) Dial(endpoint rwsem.Endpoint) *MockClient {
	toServer := make(chan *Message, 16)
	toClient := make(chan *Message, 16)

	server := &mockConn{endpoint: endpoint, recvCh: toServer, sendCh: toClient}
	client := &MockClient{endpoint: endpoint, recvCh: toClient, sendCh: toServer}

	t.accept <- server
	return client
}

// mockConn is the server-side half of a Dial'd pair.
type mockConn struct {
	endpoint rwsem.Endpoint
	recvCh   chan *Message
	sendCh   chan *Message
	closed   bool
}

func (c *mockConn) Endpoint() rwsem.Endpoint { return c.endpoint }

func (c *mockConn) Recv(ctx context.Context) (*Message, error) {
	select {
	case m, ok := <-c.recvCh:
		if !ok {
			return nil, context.Canceled
		}
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send is best-effort and non-blocking, matching spec.md §5: a client
// that isn't currently draining its inbound channel simply misses the
// message.
func (c *mockConn) Send(m *Message) {
	select {
	case c.sendCh <- m:
	default:
	}
}

func (c *mockConn) Close() error {
	return nil
}

// MockClient is the client-facing half of a Dial'd pair, used directly by
// dispatcher tests and wrapped by client.Client in integration tests.
type MockClient struct {
	endpoint rwsem.Endpoint
	recvCh   chan *Message
	sendCh   chan *Message
}

func (c *MockClient) Endpoint() rwsem.Endpoint { return c.endpoint }

// SendToServer delivers a request as the dispatcher's accept/read loop
// would have decoded it off the wire. It is the test-only shorthand for
// Send with a background context.
func (c *MockClient) SendToServer(m *Message) {
	c.sendCh <- m
}

// Send implements ipc.ClientTransport, so *MockClient can stand in for a
// *ClientConn in client package tests.
func (c *MockClient) Send(ctx context.Context, m *Message) error {
	select {
	case c.sendCh <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv blocks for the next message the server sent this endpoint, whether
// a synchronous reply or an asynchronous wakeup.
func (c *MockClient) Recv(ctx context.Context) (*Message, error) {
	select {
	case m := <-c.recvCh:
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
