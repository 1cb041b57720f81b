package main

import (
	"fmt"
	"os"

	"github.com/taskforge/taskforge/cli"
	"github.com/taskforge/taskforge/cli/cmd"
)

func main() {
	root := cli.RootCmd()
	if err := root.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
