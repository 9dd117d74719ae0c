package main

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/cli"
)

type StatCommand struct {
	baseCommand
}

func (c *StatCommand) Help() string {
	return "Usage: rwsemctl stat <id>\n\n  Prints a point-in-time snapshot of a semaphore's state."
}

func (c *StatCommand) Synopsis() string {
	return "Show a semaphore's state, counts, and queue depths"
}

func (c *StatCommand) Run(args []string) int {
	fs := c.flags()
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		c.Ui.Error("stat requires exactly one <id> argument")
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
		return c.reportErrno("stat", err)
	}
	defer cl.Close()

	st, err := cl.Stat(ctx, id)
	if err != nil {
		return c.reportErrno("stat", err)
	}

	c.Ui.Output(fmt.Sprintf(
		"id=%d state=%s key=%d readers_in=%d writers_in=%d readers_waiting=%d writers_waiting=%d",
		st.ID, st.State, st.Key, st.ReadersIn, st.WritersIn, st.ReadersWaiting, st.WritersWaiting,
	))
	return 0
}

var _ cli.Command = (*StatCommand)(nil)
