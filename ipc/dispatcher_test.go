package ipc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/minix3/rwsemd/rwsem"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startDispatcher(t *testing.T) (*Dispatcher, *MockTransport, context.CancelFunc) {
	t.Helper()
	d := NewDispatcher(4, 0, nil, nil)
	transport := NewMockTransport()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Run(ctx, transport)
	}()

	t.Cleanup(func() {
		cancel()
		transport.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatcher did not shut down")
		}
	})

	return d, transport, cancel
}

func recv(t *testing.T, c *MockClient) *Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m, err := c.Recv(ctx)
	require.NoError(t, err)
	return m
}

func TestDispatcherGetDelete(t *testing.T) {
	_, transport, _ := startDispatcher(t)
	client := transport.Dial("client-1")

	client.SendToServer(&Message{Call: RWSEMGET, Key: 42})
	reply := recv(t, client)
	require.Equal(t, rwsem.OK, reply.Errno)
	require.Equal(t, 0, reply.RetID)

	client.SendToServer(&Message{Call: RWSEMDEL, ID: reply.RetID})
	reply2 := recv(t, client)
	require.Equal(t, rwsem.OK, reply2.Errno)
}

func TestDispatcherReadWriteHandoffAcrossConnections(t *testing.T) {
	_, transport, _ := startDispatcher(t)

	owner := transport.Dial("owner")
	owner.SendToServer(&Message{Call: RWSEMGET, Key: 7})
	id := recv(t, owner).RetID

	writer := transport.Dial("writer")
	reader := transport.Dial("reader")

	owner.SendToServer(&Message{Call: READLOCK, ID: id})
	require.Equal(t, rwsem.OK, recv(t, owner).Errno)

	writer.SendToServer(&Message{Call: WRITELOCK, ID: id})
	// writer is queued; no reply yet.

	owner.SendToServer(&Message{Call: READUNLOCK, ID: id})
	require.Equal(t, rwsem.OK, recv(t, owner).Errno)
	require.Equal(t, rwsem.OK, recv(t, writer).Errno)

	reader.SendToServer(&Message{Call: READLOCK, ID: id})
	// reader queues behind the active writer.

	writer.SendToServer(&Message{Call: WRITEUNLOCK, ID: id})
	require.Equal(t, rwsem.OK, recv(t, writer).Errno)
	require.Equal(t, rwsem.OK, recv(t, reader).Errno)
}

func TestDispatcherStat(t *testing.T) {
	_, transport, _ := startDispatcher(t)
	client := transport.Dial("c")

	client.SendToServer(&Message{Call: RWSEMGET, Key: 1})
	id := recv(t, client).RetID

	client.SendToServer(&Message{Call: RWSEMSTAT, ID: id})
	reply := recv(t, client)
	require.Equal(t, rwsem.OK, reply.Errno)
	require.Equal(t, "ACTIVE", reply.Stat.State)
	require.Equal(t, int64(1), reply.Stat.Key)
}

func TestDispatcherUnknownID(t *testing.T) {
	_, transport, _ := startDispatcher(t)
	client := transport.Dial("c")

	client.SendToServer(&Message{Call: RWSEMDEL, ID: 999})
	reply := recv(t, client)
	require.Equal(t, rwsem.ENOENT, reply.Errno)
}
