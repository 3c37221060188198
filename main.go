package main

import (
	"os"

	"github.com/penwyp/go-enroll-stats/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
