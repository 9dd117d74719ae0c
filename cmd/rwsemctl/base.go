package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/mitchellh/cli"

	"github.com/minix3/rwsemd/client"
	"github.com/minix3/rwsemd/config"
	"github.com/minix3/rwsemd/locator"
)

// baseCommand is embedded by every rwsemctl subcommand, the way
// command/base.Command is embedded by every consul subcommand: it owns the
// one flag every call needs (-addr) and the dialing boilerplate, so each
// subcommand's Run is just "parse my own args, make one client call, print
// the result."
type baseCommand struct {
	Ui cli.Ui

	addr    config.ClientAddr
	flagSet *flag.FlagSet
}

func (c *baseCommand) flags() *flag.FlagSet {
	c.flagSet = flag.NewFlagSet("", flag.ContinueOnError)
	c.addr.ClientFlags(c.flagSet)
	return c.flagSet
}

func (c *baseCommand) dial(ctx context.Context) (*client.Client, error) {
	return client.Dial(ctx, locator.StaticLocator{Addr: c.addr.Addr})
}

func (c *baseCommand) callTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

var (
	colorOK   = color.New(color.FgGreen).SprintFunc()
	colorErr  = color.New(color.FgRed).SprintFunc()
	colorInfo = color.New(color.FgCyan).SprintFunc()
)

// reportErrno colorizes and prints the outcome of a call, returning the
// process exit code the way mitchellh/cli commands are expected to.
func (c *baseCommand) reportErrno(op string, err error) int {
	if err != nil {
		c.Ui.Error(fmt.Sprintf("%s: %s", op, colorErr(err.Error())))
		return 1
	}
	c.Ui.Output(colorOK("OK"))
	return 0
}
