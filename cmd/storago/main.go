// Package main provides the storago CLI. It manages the tables declared in a
// YAML schema file through a storago adapter.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
