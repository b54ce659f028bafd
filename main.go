// horsetab binds shell commands to Morse-like mouse click sequences and
// runs them as a background daemon reachable over HTTP and a TCP event
// bus.
package main

import (
	"fmt"
	"os"

	"horsetab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
