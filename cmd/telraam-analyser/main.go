// Command telraam-analyser fetches Telraam traffic-sensor data through an
// incremental on-disk cache and compares it across date-range groups.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&fetchCmd{}, "")
	subcommands.Register(&reportCmd{}, "")
	subcommands.Register(&exportCmd{}, "")
	subcommands.Register(&presetsCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
