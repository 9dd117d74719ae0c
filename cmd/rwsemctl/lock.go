package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mitchellh/cli"

	"github.com/minix3/rwsemd/client"
)

// lockOp is the shape shared by rlock/runlock/wlock/wunlock: parse one <id>
// argument, dial, make one blocking call, report the outcome. Factored out
// so the four subcommands below are just a name and a call.
func lockOp(c *baseCommand, args []string, name string, call func(cl *client.Client, ctx context.Context, id int) error) int {
	fs := c.flags()
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		c.Ui.Error(fmt.Sprintf("%s requires exactly one <id> argument", name))
		return 1
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("invalid id %q: %s", fs.Arg(0), err))
		return 1
	}

	ctx, cancel := c.callTimeout()
	defer cancel()

	cl, err := c.dial(ctx)
	if err != nil {
		return c.reportErrno(name, err)
	}
	defer cl.Close()

	return c.reportErrno(name, call(cl, ctx, id))
}

type RLockCommand struct{ baseCommand }

func (c *RLockCommand) Help() string {
	return "Usage: rwsemctl rlock <id>\n\n  Blocks until a read lock on the semaphore is granted."
}
func (c *RLockCommand) Synopsis() string { return "Acquire a read lock" }
func (c *RLockCommand) Run(args []string) int {
	return lockOp(&c.baseCommand, args, "rlock", (*client.Client).ReadLock)
}

type RUnlockCommand struct{ baseCommand }

func (c *RUnlockCommand) Help() string {
	return "Usage: rwsemctl runlock <id>\n\n  Releases a previously granted read lock."
}
func (c *RUnlockCommand) Synopsis() string { return "Release a read lock" }
func (c *RUnlockCommand) Run(args []string) int {
	return lockOp(&c.baseCommand, args, "runlock", (*client.Client).ReadUnlock)
}

type WLockCommand struct{ baseCommand }

func (c *WLockCommand) Help() string {
	return "Usage: rwsemctl wlock <id>\n\n  Blocks until a write lock on the semaphore is granted."
}
func (c *WLockCommand) Synopsis() string { return "Acquire a write lock" }
func (c *WLockCommand) Run(args []string) int {
	return lockOp(&c.baseCommand, args, "wlock", (*client.Client).WriteLock)
}

type WUnlockCommand struct{ baseCommand }

func (c *WUnlockCommand) Help() string {
	return "Usage: rwsemctl wunlock <id>\n\n  Releases a previously granted write lock."
}
func (c *WUnlockCommand) Synopsis() string { return "Release a write lock" }
func (c *WUnlockCommand) Run(args []string) int {
	return lockOp(&c.baseCommand, args, "wunlock", (*client.Client).WriteUnlock)
}

var (
	_ cli.Command = (*RLockCommand)(nil)
	_ cli.Command = (*RUnlockCommand)(nil)
	_ cli.Command = (*WLockCommand)(nil)
	_ cli.Command = (*WUnlockCommand)(nil)
)
