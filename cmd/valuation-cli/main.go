package main

import (
	"os"
	"valuation-service/cmd/valuation-cli/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
