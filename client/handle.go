package client

import (
	"context"
	"errors"
	"sync"
)

// Mode selects which kind of lock a Handle acquires.
type Mode int

const (
	ReadMode Mode = iota
	WriteMode
)

// ErrHandleHeld is returned if a Handle is acquired twice without an
// intervening release.
var ErrHandleHeld = errors.New("rwsem: handle already held")

// ErrHandleNotHeld is returned if Release is called on a Handle that
// isn't currently held.
var ErrHandleNotHeld = errors.New("rwsem: handle not held")

// Handle is a single-key, single-mode convenience wrapper around Client:
// it folds Get + ReadLock/WriteLock into one Acquire call and the matching
// unlock into Release, tracking whether it's currently held so a caller
// can't silently double-acquire or double-release. It owns exactly one
// outstanding lock at a time; acquire another key with another Handle.
type Handle struct {
	c   *Client
	key int64

	mu   sync.Mutex
	id   int
	mode Mode
	held bool
}

// NewHandle builds a Handle bound to one key on one Client. The semaphore
// itself is created lazily on first Acquire, not here.
func NewHandle(c *Client, key int64) *Handle {
	return &Handle{c: c, key: key}
}

// Acquire resolves the handle's key to a semaphore id and blocks until the
// requested mode is granted, or fails with the id resolution or lock
// error. It is a caller error to Acquire an already-held Handle.
func (h *Handle) Acquire(ctx context.Context, mode Mode) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.held {
		return ErrHandleHeld
	}

	id, err := h.c.Get(ctx, h.key)
	if err != nil {
		return err
	}

	switch mode {
	case ReadMode:
		err = h.c.ReadLock(ctx, id)
	case WriteMode:
		err = h.c.WriteLock(ctx, id)
	default:
		return errors.New("rwsem: unknown mode")
	}
	if err != nil {
		return err
	}

	h.id = id
	h.mode = mode
	h.held = true
	return nil
}

// Release unlocks in whichever mode Acquire last succeeded with. It is a
// caller error to Release a Handle that isn't held.
func (h *Handle) Release(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.held {
		return ErrHandleNotHeld
	}

	var err error
	switch h.mode {
	case ReadMode:
		err = h.c.ReadUnlock(ctx, h.id)
	case WriteMode:
		err = h.c.WriteUnlock(ctx, h.id)
	}
	h.held = false
	return err
}

// ID returns the resolved semaphore id once held; it is only meaningful
// between a successful Acquire and the matching Release.
func (h *Handle) ID() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id
}
