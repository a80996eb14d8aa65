// Command ballot is the terminal client for the voting service.
package main

import (
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = version + " (commit: " + commit + ")"
	os.Exit(execute(cmd))
}
