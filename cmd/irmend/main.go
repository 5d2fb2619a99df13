package main

import (
	"os"

	"irmend/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
