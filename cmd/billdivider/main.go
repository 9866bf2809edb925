// Package main is the entry point for the billdivider CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/billdivider/cmd/billdivider/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
