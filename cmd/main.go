package main

import (
	"os"

	"github.com/davidhoeppner/LernApp2-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
