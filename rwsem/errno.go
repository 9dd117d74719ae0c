package rwsem

// Errno is the fixed taxonomy of status codes this module can produce.
// It is returned from synchronous handlers and carried in the one-word
// messages sent to asynchronously-woken clients. It never crosses the
// handler boundary as a Go error — see Error.
type Errno int

const (
	// OK indicates success.
	OK Errno = iota
	// EAGAIN indicates the slot table is at capacity.
	EAGAIN
	// ENOENT indicates an unknown or freed semaphore id.
	ENOENT
	// EPERM indicates an unlock was attempted while no matching lock was held.
	EPERM
	// EINTR indicates the semaphore was deleted out from under a waiter.
	EINTR
	// ENOMEM indicates a wait-queue node could not be enqueued.
	ENOMEM
	// ENOSYS is produced only at the client boundary, when the IPC server
	// cannot be located. The core itself never returns ENOSYS.
	ENOSYS
)

func (e Errno) String() string {
	switch e {
	case OK:
		return "OK"
	case EAGAIN:
		return "EAGAIN"
	case ENOENT:
		return "ENOENT"
	case EPERM:
		return "EPERM"
	case EINTR:
		return "EINTR"
	case ENOMEM:
		return "ENOMEM"
	case ENOSYS:
		return "ENOSYS"
	default:
		return "EUNKNOWN"
	}
}

// Error adapts Errno to the standard error interface for callers (the
// client package, mostly) that want idiomatic Go error handling at their
// own boundary. The core handlers never use this; they return Errno
// directly per the propagation policy in spec.md §7.
func (e Errno) Error() string {
	return e.String()
}
