package ipc

import (
	"context"

	"github.com/minix3/rwsemd/rwsem"
)

// Conn is one client's connection, identified by its endpoint. Per
// spec.md §5's "Message-send resource policy," Send is always best-effort:
// implementations must not block the caller, and may drop a message if
// the peer isn't keeping up. This holds for both the synchronous reply
// path (Dispatcher.Handle forwarding a handler's return value) and the
// asynchronous wakeup path (rwsem.Sender), which is why Conn itself
// implements both.
type Conn interface {
	Endpoint() rwsem.Endpoint
	Recv(ctx context.Context) (*Message, error)
	Send(m *Message)
	Close() error
}

// Transport accepts new client connections. Out of scope per spec.md §1
// ("the IPC message transport and its dispatch loop"); this interface is
// the narrow edge this repository still needs to depend on to be a
// runnable service, per SPEC_FULL.md's domain stack.
type Transport interface {
	Accept(ctx context.Context) (Conn, error)
	Close() error
}
