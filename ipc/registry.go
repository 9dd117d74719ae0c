package ipc

import (
	"sync"

	"github.com/minix3/rwsemd/rwsem"
)

// registry tracks live connections by endpoint and adapts that tracking
// into an rwsem.Sender. It is the one piece of shared mutable state that
// *is* guarded by a mutex, because connections are accepted and torn down
// concurrently with the single-threaded dispatch loop — unlike the
// rwsem.Table itself, which is only ever touched from that one loop.
type registry struct {
	mu    sync.Mutex
	conns map[rwsem.Endpoint]Conn
}

func newRegistry() *registry {
	return &registry{conns: make(map[rwsem.Endpoint]Conn)}
}

func (r *registry) add(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.Endpoint()] = c
}

func (r *registry) remove(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[c.Endpoint()]; ok && cur == c {
		delete(r.conns, c.Endpoint())
	}
}

// Send implements rwsem.Sender. A target that has disconnected since it
// was queued is simply not found; per spec.md §5 that is an expected,
// tolerated outcome, not an error.
func (r *registry) Send(who rwsem.Endpoint, code rwsem.Errno) {
	r.mu.Lock()
	c, ok := r.conns[who]
	r.mu.Unlock()
	if !ok {
		return
	}
	c.Send(&Message{Errno: code})
}
