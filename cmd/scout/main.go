package main

import (
	"os"

	"github.com/profitscout/scout-api/cmd/scout/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
