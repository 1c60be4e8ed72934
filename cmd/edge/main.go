package main

import (
	"os"

	"github.com/rustyeddy/edge/cmd/edge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
