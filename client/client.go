// Package client is rwsemd's call wrapper library, mirroring
// lib/libc/sys-minix/rwsem.c one call at a time: every exported method
// marshals a call code and payload, blocks for the reply the way
// _syscall blocks, and turns a non-OK reply into a Go error built from
// rwsem.Errno. A Client is not safe for concurrent use from multiple
// goroutines, the same way a Unix file descriptor used for a blocking
// syscall isn't — issue one call, wait for its reply, then issue the next.
package client

import (
	"context"
	"fmt"

	"github.com/minix3/rwsemd/ipc"
	"github.com/minix3/rwsemd/locator"
	"github.com/minix3/rwsemd/rwsem"
)

// Client is a connection to one rwsemd server.
type Client struct {
	conn ipc.ClientTransport
}

// Dial resolves the server's address via loc and connects to it. If the
// address can't be resolved at all, the call fails with ENOSYS before any
// bytes are sent — the same boundary get_ipc_endpt guards in the original.
func Dial(ctx context.Context, loc locator.Locator) (*Client, error) {
	addr, err := loc.Locate(ctx)
	if err != nil {
		return nil, rwsem.ENOSYS
	}
	conn, err := ipc.DialYamux(ctx, addr)
	if err != nil {
		return nil, rwsem.ENOSYS
	}
	return &Client{conn: conn}, nil
}

// NewClient builds a Client directly atop an already-established
// transport connection. Production code uses Dial; tests use it with
// *ipc.MockClient to exercise the wrapper without a real socket.
func NewClient(conn ipc.ClientTransport) *Client {
	return &Client{conn: conn}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, req *ipc.Message) (*ipc.Message, error) {
	if err := c.conn.Send(ctx, req); err != nil {
		return nil, fmt.Errorf("client: send %s: %w", req.Call, err)
	}
	reply, err := c.conn.Recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("client: recv reply to %s: %w", req.Call, err)
	}
	return reply, nil
}

func errnoOrNil(e rwsem.Errno) error {
	if e == rwsem.OK {
		return nil
	}
	return e
}

// Get implements rwsemget(key): returns the semaphore's id, creating it on
// first use.
func (c *Client) Get(ctx context.Context, key int64) (int, error) {
	reply, err := c.call(ctx, &ipc.Message{Call: ipc.RWSEMGET, Key: key})
	if err != nil {
		return 0, err
	}
	if reply.Errno != rwsem.OK {
		return 0, reply.Errno
	}
	return reply.RetID, nil
}

// Delete implements rwsemdel(semid).
func (c *Client) Delete(ctx context.Context, id int) error {
	reply, err := c.call(ctx, &ipc.Message{Call: ipc.RWSEMDEL, ID: id})
	if err != nil {
		return err
	}
	return errnoOrNil(reply.Errno)
}

// ReadLock implements read_lock(semid). It blocks until the semaphore is
// granted, rejected (ENOENT/EINTR), or the queue is full (ENOMEM).
//
// Calling ReadLock twice for the same id before the first call returns is
// a protocol violation: the core does not de-duplicate waiters (spec.md
// §9), so the caller would occupy two queue slots and could be granted the
// lock twice over.
func (c *Client) ReadLock(ctx context.Context, id int) error {
	reply, err := c.call(ctx, &ipc.Message{Call: ipc.READLOCK, ID: id})
	if err != nil {
		return err
	}
	return errnoOrNil(reply.Errno)
}

// ReadUnlock implements read_unlock(semid).
func (c *Client) ReadUnlock(ctx context.Context, id int) error {
	reply, err := c.call(ctx, &ipc.Message{Call: ipc.READUNLOCK, ID: id})
	if err != nil {
		return err
	}
	return errnoOrNil(reply.Errno)
}

// WriteLock implements write_lock(semid). See ReadLock's note on
// duplicate waits — it applies here too.
func (c *Client) WriteLock(ctx context.Context, id int) error {
	reply, err := c.call(ctx, &ipc.Message{Call: ipc.WRITELOCK, ID: id})
	if err != nil {
		return err
	}
	return errnoOrNil(reply.Errno)
}

// WriteUnlock implements write_unlock(semid).
func (c *Client) WriteUnlock(ctx context.Context, id int) error {
	reply, err := c.call(ctx, &ipc.Message{Call: ipc.WRITEUNLOCK, ID: id})
	if err != nil {
		return err
	}
	return errnoOrNil(reply.Errno)
}

// Stat is the additive, read-only introspection call (RWSEMSTAT) from
// SPEC_FULL.md. It has no counterpart in the original source.
func (c *Client) Stat(ctx context.Context, id int) (rwsem.Stat, error) {
	reply, err := c.call(ctx, &ipc.Message{Call: ipc.RWSEMSTAT, ID: id})
	if err != nil {
		return rwsem.Stat{}, err
	}
	if reply.Errno != rwsem.OK {
		return rwsem.Stat{}, reply.Errno
	}
	return reply.Stat, nil
}
