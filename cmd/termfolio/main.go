package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/csheth/termfolio/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
