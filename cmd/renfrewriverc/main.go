// Command renfrewriverc is a TUI protocol inspector for renfrewriverd:
// it dials the daemon's WebSocket endpoint and lets an operator send
// raw tagged-union commands and inspect the raw responses.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	address := flag.String("address", "127.0.0.1:8420", "renfrewriverd listen address")
	flag.Parse()

	c, err := dial(*address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", *address, err)
		os.Exit(1)
	}
	defer c.close()

	t := newTUI(c)
	if err := t.run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}
