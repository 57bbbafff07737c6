// Command termd hosts the multiplexing terminal server: it parses
// flags, wires a creack/pty-backed Collaborator into a server.Listener,
// and serves the wire protocol on a TCP listener until interrupted.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
