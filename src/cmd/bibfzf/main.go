package main

import (
	"errors"
	"fmt"
	"os"

	"bibfzf/src/cmd/bibfzf/rootcmd"
)

var rootCmd = rootcmd.New(rootcmd.DefaultDeps())

func execute() error {
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		var exit *rootcmd.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		_, _ = fmt.Fprintln(os.Stderr, "bibfzf:", err)
		os.Exit(1)
	}
}
