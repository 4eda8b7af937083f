// Package main is the entry point for the theater CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/theater/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
