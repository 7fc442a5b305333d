// Command vire-ledger imports transactions and prints holdings and
// valuations from the tracker's local ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	configFile = flag.String("config", "", "Configuration file path")
	envFile    = flag.String("env", ".env", "Path to a .env file (optional)")
	serverURL  = flag.String("server", "", "Talk to a running vire-tracker at this URL instead of opening the ledger")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "ledger")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
