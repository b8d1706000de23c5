package main

import (
	"fmt"
	"os"

	"rsh/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rsh: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
