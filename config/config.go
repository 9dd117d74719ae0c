// Package config is rwsemd's RuntimeConfig, in the shape of the teacher's
// agent/config/runtime.go: a flat struct of only the settings this binary
// actually uses, populated from command-line flags the way
// command/base/command.go builds Consul's flag sets. Per spec.md §6 the
// core itself takes no configuration files or environment variables; this
// package configures only the surrounding server and CLI processes.
package config

import (
	"flag"
	"time"

	"github.com/minix3/rwsemd/rwsem"
)

// RuntimeConfig is what cmd/rwsemd actually needs to start serving.
type RuntimeConfig struct {
	// ListenAddr is the TCP address the yamux transport listens on.
	ListenAddr string

	// Capacity overrides rwsem.DefaultCapacity (MAX_RWSEM). Zero means
	// use the default.
	Capacity int

	// MaxQueueDepth overrides rwsem.DefaultMaxQueueDepth. Zero means use
	// the default. Set low in tests to make ENOMEM observable on demand.
	MaxQueueDepth int

	// LogLevel is one of "trace", "debug", "info", "warn", "error".
	LogLevel string

	// MetricsRetain is how long the in-memory metrics sink keeps interval
	// buckets before discarding them.
	MetricsRetain time.Duration
}

// DefaultConfig returns the configuration rwsemd starts with if no flags
// override it.
func DefaultConfig() *RuntimeConfig {
	return &RuntimeConfig{
		ListenAddr:    "127.0.0.1:7500",
		Capacity:      rwsem.DefaultCapacity,
		MaxQueueDepth: rwsem.DefaultMaxQueueDepth,
		LogLevel:      "info",
		MetricsRetain: 2 * time.Minute,
	}
}

// ServerFlags registers rwsemd's server flags onto fs, defaulting to c's
// current values, and returns c so callers can chain fs.Parse(args) before
// reading the fields back out.
func (c *RuntimeConfig) ServerFlags(fs *flag.FlagSet) *RuntimeConfig {
	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr,
		"Address the rwsemd IPC transport listens on.")
	fs.IntVar(&c.Capacity, "capacity", c.Capacity,
		"Maximum number of simultaneous semaphores (MAX_RWSEM).")
	fs.IntVar(&c.MaxQueueDepth, "max-queue-depth", c.MaxQueueDepth,
		"Maximum waiters per semaphore queue before a lock call returns ENOMEM.")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel,
		"Log level: trace, debug, info, warn, or error.")
	fs.DurationVar(&c.MetricsRetain, "metrics-retain", c.MetricsRetain,
		"How long the in-memory metrics sink retains interval buckets.")
	return c
}

// ClientAddr is the one flag rwsemctl needs: which rwsemd to talk to.
type ClientAddr struct {
	Addr string
}

// ClientFlags registers rwsemctl's flags onto fs.
func (c *ClientAddr) ClientFlags(fs *flag.FlagSet) *ClientAddr {
	fs.StringVar(&c.Addr, "addr", "127.0.0.1:7500",
		"Address of the rwsemd server to connect to.")
	return c
}
