package ipc

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/minix3/rwsemd/rwsem"
)

type inbound struct {
	conn Conn
	msg  *Message
}

// Dispatcher is the single-threaded dispatch loop from spec.md §5. All
// rwsem.Table method calls happen from exactly one goroutine (the loop
// started by Run); connection accept and read happen concurrently, but
// every decoded message is funneled through one channel so the table
// itself never needs a lock.
type Dispatcher struct {
	table    *rwsem.Table
	registry *registry
	logger   hclog.Logger

	inboundCh chan inbound
}

// NewDispatcher builds a Dispatcher. capacity and maxQueueDepth are
// forwarded to rwsem.NewTable (0 means their respective defaults).
func NewDispatcher(capacity, maxQueueDepth int, observer rwsem.Observer, logger hclog.Logger) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	reg := newRegistry()
	return &Dispatcher{
		table:     rwsem.NewTable(capacity, maxQueueDepth, reg, observer),
		registry:  reg,
		logger:    logger.Named("dispatch"),
		inboundCh: make(chan inbound, 256),
	}
}

// Table exposes the underlying table to in-process callers. RWSEMSTAT
// requests do not use it; they are routed through Handle like every other
// call.
func (d *Dispatcher) Table() *rwsem.Table {
	return d.table
}

// Run accepts connections from t and dispatches every message they send
// until ctx is cancelled or the transport's Accept loop ends in error.
func (d *Dispatcher) Run(ctx context.Context, t Transport) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			conn, err := t.Accept(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("ipc: accept: %w", err)
			}
			d.registry.add(conn)
			g.Go(func() error {
				return d.readLoop(ctx, conn)
			})
		}
	})

	g.Go(func() error {
		return d.dispatchLoop(ctx)
	})

	return g.Wait()
}

func (d *Dispatcher) readLoop(ctx context.Context, conn Conn) error {
	defer func() {
		d.registry.remove(conn)
		conn.Close()
	}()
	for {
		msg, err := conn.Recv(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			d.logger.Debug("connection closed", "endpoint", conn.Endpoint(), "error", err)
			return nil
		}
		select {
		case d.inboundCh <- inbound{conn: conn, msg: msg}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *Dispatcher) dispatchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-d.inboundCh:
			d.Handle(in.conn, in.msg)
		}
	}
}

// Handle runs exactly one call to completion, matching spec.md §5: there
// are no suspension points inside a handler. READ_LOCK and WRITE_LOCK
// reply to the caller themselves (or defer the reply to a later unlock or
// drain); every other call code gets its reply forwarded here.
func (d *Dispatcher) Handle(conn Conn, m *Message) {
	switch m.Call {
	case RWSEMGET:
		id, errno := d.table.Get(m.Key)
		conn.Send(&Message{Call: m.Call, RetID: id, Errno: errno})

	case RWSEMDEL:
		errno := d.table.Delete(m.ID)
		conn.Send(&Message{Call: m.Call, Errno: errno})

	case READLOCK:
		d.table.ReadLock(conn.Endpoint(), m.ID)

	case WRITELOCK:
		d.table.WriteLock(conn.Endpoint(), m.ID)

	case READUNLOCK:
		errno := d.table.ReadUnlock(m.ID)
		conn.Send(&Message{Call: m.Call, Errno: errno})

	case WRITEUNLOCK:
		errno := d.table.WriteUnlock(m.ID)
		conn.Send(&Message{Call: m.Call, Errno: errno})

	case RWSEMSTAT:
		stat, errno := d.table.Stat(m.ID)
		conn.Send(&Message{Call: m.Call, Errno: errno, Stat: stat})

	default:
		d.logger.Warn("unknown call code", "call", m.Call)
		conn.Send(&Message{Call: m.Call, Errno: rwsem.ENOENT})
	}
}
