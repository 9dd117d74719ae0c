package main

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/cli"
)

type GetCommand struct {
	baseCommand
}

func (c *GetCommand) Help() string {
	return "Usage: rwsemctl get <key>\n\n  Resolves key to a semaphore id, creating the semaphore if needed."
}

func (c *GetCommand) Synopsis() string {
	return "Get (or create) a semaphore's id for a key"
}

func (c *GetCommand) Run(args []string) int {
	fs := c.flags()
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		c.Ui.Error("get requires exactly one <key> argument")
		return 1
	}
	key, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("invalid key %q: %s", fs.Arg(0), err))
		return 1
	}

	ctx, cancel := c.callTimeout()
	defer cancel()

	cl, err := c.dial(ctx)
	if err != nil {
		return c.reportErrno("get", err)
	}
	defer cl.Close()

	id, err := cl.Get(ctx, key)
	if err != nil {
		return c.reportErrno("get", err)
	}
	c.Ui.Output(colorInfo(strconv.Itoa(id)))
	return 0
}

var _ cli.Command = (*GetCommand)(nil)
