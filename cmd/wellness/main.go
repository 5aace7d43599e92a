// ABOUTME: Entry point for the wellness CLI.
// ABOUTME: Carries the build version and exits non-zero when a command fails.
package main

import (
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wellness: %v\n", err)
		os.Exit(1)
	}
}
