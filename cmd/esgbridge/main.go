package main

import (
	"fmt"
	"os"

	"github.com/verdana-labs/esgbridge/cmd/esgbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
