// Command meshd is the entry point of the peer-to-peer virtual network
// daemon: it wires configuration, logging, TLS material, the tunnel
// interface and the mesh Hub together in the order SPEC_FULL's startup
// sequence describes, exiting with the code spec.md §6 assigns to whichever
// stage failed.
package main

import (
	"fmt"
	"os"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
