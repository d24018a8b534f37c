// ABOUTME: Entry point for the daily binary.
// ABOUTME: Executes the root Cobra command and closes storage on every exit path.
package main

import (
	"os"
)

func main() {
	err := rootCmd.Execute()
	// Cobra skips post-run hooks when a command fails.
	closeStore()
	if err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}
