package main

import (
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run executes the CLI with args and releases the application resources afterwards.
func run(args []string) error {
	cmd, c := newRootCmd()
	cmd.SetArgs(args)
	defer c.close()
	return cmd.Execute()
}
