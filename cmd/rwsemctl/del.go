package main

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/cli"
)

type DelCommand struct {
	baseCommand
}

func (c *DelCommand) Help() string {
	return "Usage: rwsemctl del <id>\n\n  Marks a semaphore CLOSED and deletes it once it has no holders."
}

func (c *DelCommand) Synopsis() string {
	return "Delete a semaphore by id"
}

func (c *DelCommand) Run(args []string) int {
	fs := c.flags()
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		c.Ui.Error("del requires exactly one <id> argument")
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
		return c.reportErrno("del", err)
	}
	defer cl.Close()

	return c.reportErrno("del", cl.Delete(ctx, id))
}

var _ cli.Command = (*DelCommand)(nil)
