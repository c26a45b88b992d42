package main

import (
	"os"

	"github.com/arthur-debert/addonlink/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
