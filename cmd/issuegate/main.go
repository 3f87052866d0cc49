package main

import (
	"os"

	"issuegate/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
