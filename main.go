package main

import (
	"os"

	"github.com/hsbacot/bysykkel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
