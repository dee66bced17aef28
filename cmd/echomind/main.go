// Package main is the entry point for the echomind capture proxy.
package main

import (
	"os"

	"github.com/echomind-io/echomind/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
