// Package locator stands in for the naming service at spec.md §1's
// out-of-scope boundary: the thing the client library asks "where is the
// IPC server" before it can place a single call. In the original source
// this is minix_rs_lookup("ipc", &pt) inside get_ipc_endpt; every one of
// the six call wrappers in lib/libc/sys-minix/rwsem.c checks it first and
// fails the whole call with ENOSYS if it can't resolve an endpoint.
package locator

import (
	"context"
	"fmt"
)

// Locator resolves the network address of the running rwsemd server.
type Locator interface {
	Locate(ctx context.Context) (addr string, err error)
}

// StaticLocator always resolves to a fixed, pre-configured address. It is
// the Go stand-in for the common case where the server's address is known
// ahead of time (a flag, a config file, an environment variable) rather
// than discovered dynamically.
type StaticLocator struct {
	Addr string
}

func (s StaticLocator) Locate(ctx context.Context) (string, error) {
	if s.Addr == "" {
		return "", fmt.Errorf("locator: no address configured")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return s.Addr, nil
}
