package main

import (
	"os"

	"github.com/penwyp/go-time-tracer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
