package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/amirasaad/cpfledger/pkg/config"
	"github.com/google/subcommands"
)

func main() {
	config.LoadEnv(discardLogger())
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander, newGlobals(flag.CommandLine))

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
