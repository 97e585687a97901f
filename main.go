package main

import (
	"fmt"
	"os"

	"github.com/temirov/zfs-updater/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the zfs-updater command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
