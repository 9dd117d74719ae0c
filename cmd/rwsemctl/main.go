// Command rwsemctl is the interactive client for rwsemd: one subcommand
// per call code, the way consul's CLI maps one subcommand per RPC. It
// shares the client package with any other Go program that wants to drive
// an rwsemd server, and exists mostly to make the protocol easy to poke at
// by hand.
package main

import (
	"os"

	"github.com/mitchellh/cli"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ui := &cli.BasicUi{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Reader:      os.Stdin,
	}

	commands := map[string]cli.CommandFactory{
		"get": func() (cli.Command, error) {
			return &GetCommand{baseCommand{Ui: ui}}, nil
		},
		"del": func() (cli.Command, error) {
			return &DelCommand{baseCommand{Ui: ui}}, nil
		},
		"rlock": func() (cli.Command, error) {
			return &RLockCommand{baseCommand{Ui: ui}}, nil
		},
		"runlock": func() (cli.Command, error) {
			return &RUnlockCommand{baseCommand{Ui: ui}}, nil
		},
		"wlock": func() (cli.Command, error) {
			return &WLockCommand{baseCommand{Ui: ui}}, nil
		},
		"wunlock": func() (cli.Command, error) {
			return &WUnlockCommand{baseCommand{Ui: ui}}, nil
		},
		"stat": func() (cli.Command, error) {
			return &StatCommand{baseCommand{Ui: ui}}, nil
		},
	}

	c := &cli.CLI{
		Name:     "rwsemctl",
		Args:     args,
		Commands: commands,
		HelpFunc: cli.BasicHelpFunc("rwsemctl"),
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return exitCode
}
