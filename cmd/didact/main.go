// Command didact drives the course-building workflow from the terminal:
// an interactive session, a model listing, and an MCP server mode.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// API keys may live in a local .env during development.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
