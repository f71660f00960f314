package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/google/subcommands"

	"github.com/olane/telraam-analyser/internal/presets"
	"github.com/olane/telraam-analyser/pkg/logger"
)

// presetsCmd lists the builtin and saved period-group presets, or saves a
// new one from a group spec.
type presetsCmd struct {
	save   string
	groups string
}

func (*presetsCmd) Name() string     { return "presets" }
func (*presetsCmd) Synopsis() string { return "list or save period-group presets" }
func (*presetsCmd) Usage() string {
	return `presets [-save NAME -groups SPEC]:
  Without flags, list available presets. With -save, store the groups from
  -groups (e.g. "Before=2024-01-01..2024-03-31;After=2024-06-01..2024-08-31")
  under NAME for use with report -preset.
`
}

func (c *presetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.save, "save", "", "save the groups from -groups under this name")
	f.StringVar(&c.groups, "groups", "", "period groups, Name=START..END[,START..END][;...]")
}

func (c *presetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := initApp()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	log := logger.Get()

	if c.save != "" {
		groups, err := parseGroups(c.groups)
		if err != nil {
			log.Error(err)
			return subcommands.ExitUsageError
		}
		path, err := a.Presets.Save(c.save, groups)
		if err != nil {
			log.Errorw("save failed", "name", c.save, "error", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("saved preset %q to %s\n", c.save, path)
		return subcommands.ExitSuccess
	}

	builtin := make([]string, 0, len(presets.Builtin))
	for name := range presets.Builtin {
		builtin = append(builtin, name)
	}
	sort.Strings(builtin)

	for _, name := range builtin {
		fmt.Println(name)
	}
	for _, name := range a.Presets.List() {
		fmt.Println("saved: " + name)
	}
	return subcommands.ExitSuccess
}
