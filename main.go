package main

import (
	"os"

	"github.com/deltakit/deltakit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
