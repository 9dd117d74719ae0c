// Package ipc is the transport-facing half of the server: it decodes one
// message per inbound connection read, dispatches it to the rwsem.Table,
// and — per spec.md §4/§6 — either returns a synchronous reply or
// suppresses the reply entirely because the handler already sent (or will
// later send) the caller's answer itself.
package ipc

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/minix3/rwsemd/rwsem"
)

// CallCode identifies which of the six (plus one additive) operations a
// Message carries, matching the call codes in spec.md §6.
type CallCode uint8

const (
	RWSEMGET CallCode = iota
	RWSEMDEL
	READLOCK
	READUNLOCK
	WRITELOCK
	WRITEUNLOCK
	// RWSEMSTAT is the additive, read-only introspection call from
	// SPEC_FULL.md; it has no counterpart in the original source.
	RWSEMSTAT
)

func (c CallCode) String() string {
	switch c {
	case RWSEMGET:
		return "RWSEMGET"
	case RWSEMDEL:
		return "RWSEMDEL"
	case READLOCK:
		return "READ_LOCK"
	case READUNLOCK:
		return "READ_UNLOCK"
	case WRITELOCK:
		return "WRITE_LOCK"
	case WRITEUNLOCK:
		return "WRITE_UNLOCK"
	case RWSEMSTAT:
		return "RWSEMSTAT"
	default:
		return "UNKNOWN"
	}
}

// Message is the one wire struct for every call in both directions: a
// request carries Call/Key/ID, a reply carries Errno/RetID/Stat. Unused
// fields are left zero; the request/reply split keeps the wire format
// small and the call codes keep it self-describing, the way the original
// packs everything into one fixed-size `message` union.
type Message struct {
	Call  CallCode
	Key   int64
	ID    int
	RetID int
	Errno rwsem.Errno
	Stat  rwsem.Stat
}

// WriteTo gob-encodes m with a 4-byte big-endian length prefix, so a
// stream reader never has to guess where one message ends and the next
// begins.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return 0, fmt.Errorf("ipc: encode message: %w", err)
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
	n1, err := w.Write(lenPrefix[:])
	if err != nil {
		return int64(n1), err
	}
	n2, err := w.Write(buf.Bytes())
	return int64(n1 + n2), err
}

// ReadMessage reads one length-prefixed, gob-encoded Message from r.
func ReadMessage(r io.Reader) (*Message, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(lenPrefix[:])
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("ipc: read message body: %w", err)
	}
	var m Message
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&m); err != nil {
		return nil, fmt.Errorf("ipc: decode message: %w", err)
	}
	return &m, nil
}
