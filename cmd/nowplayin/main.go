package main

import (
	"os"

	"github.com/mbradley/nowplayin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
