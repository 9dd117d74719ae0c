package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/minix3/rwsemd/client"
	"github.com/minix3/rwsemd/ipc"
	"github.com/minix3/rwsemd/rwsem"
)

func startServer(t *testing.T) *ipc.MockTransport {
	t.Helper()
	d := ipc.NewDispatcher(4, 0, nil, nil)
	transport := ipc.NewMockTransport()
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
	return transport
}

func newClient(transport *ipc.MockTransport, endpoint string) *client.Client {
	mc := transport.Dial(rwsem.Endpoint(endpoint))
	return client.NewClient(mc)
}

func TestClientGetDeleteRoundTrip(t *testing.T) {
	transport := startServer(t)
	c := newClient(transport, "c1")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id, err := c.Get(ctx, 7)
	require.NoError(t, err)

	id2, err := c.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, id, id2)

	require.NoError(t, c.Delete(ctx, id))
}

func TestClientLockUnlock(t *testing.T) {
	transport := startServer(t)
	owner := newClient(transport, "owner")
	defer owner.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id, err := owner.Get(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, owner.WriteLock(ctx, id))
	require.NoError(t, owner.WriteUnlock(ctx, id))
}

func TestClientUnlockWithoutHoldReturnsEPERM(t *testing.T) {
	transport := startServer(t)
	c := newClient(transport, "c")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id, err := c.Get(ctx, 200)
	require.NoError(t, err)

	err = c.ReadUnlock(ctx, id)
	require.ErrorIs(t, err, rwsem.EPERM)
}

func TestClientStatReflectsWriteLock(t *testing.T) {
	transport := startServer(t)
	c := newClient(transport, "stat")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	id, err := c.Get(ctx, 42)
	require.NoError(t, err)

	before, err := c.Stat(ctx, id)
	require.NoError(t, err)
	wantBefore := rwsem.Stat{ID: id, State: "ACTIVE", Key: 42}
	if !cmp.Equal(before, wantBefore) {
		t.Fatalf("unexpected stat before lock: %s", cmp.Diff(wantBefore, before))
	}

	require.NoError(t, c.WriteLock(ctx, id))
	defer c.WriteUnlock(ctx, id)

	after, err := c.Stat(ctx, id)
	require.NoError(t, err)
	wantAfter := wantBefore
	wantAfter.WritersIn = 1
	if !cmp.Equal(after, wantAfter) {
		t.Fatalf("unexpected stat after write lock: %s", cmp.Diff(wantAfter, after))
	}
}

func TestHandleAcquireRelease(t *testing.T) {
	transport := startServer(t)
	c := newClient(transport, "h1")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	h := client.NewHandle(c, 300)
	require.NoError(t, h.Acquire(ctx, client.WriteMode))
	require.Error(t, h.Acquire(ctx, client.WriteMode))
	require.NoError(t, h.Release(ctx))
	require.Error(t, h.Release(ctx))
}
