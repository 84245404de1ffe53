package main

import (
	"os"

	"github.com/farmchain/soiladvisor/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
