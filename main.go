package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/GustavoCaso/spadesk/internal/cli"
	"github.com/GustavoCaso/spadesk/internal/cli/browse"
	"github.com/GustavoCaso/spadesk/internal/cli/list"
	"github.com/GustavoCaso/spadesk/internal/cli/seed"
	"github.com/GustavoCaso/spadesk/internal/cli/serve"
	"github.com/GustavoCaso/spadesk/internal/cli/user"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/storage/sqlite"
)

var configPath string

var subcommands = map[string]cli.Command{
	"serve":  serve.NewCommand(),
	"list":   list.NewCommand(),
	"browse": browse.NewCommand(),
	"user":   user.NewCommand(),
	"seed":   seed.NewCommand(),
}

var subcommandsFlagSets = map[string]*flag.FlagSet{}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("subcommand is required\n")
		printUsage()

		os.Exit(1)
	}

	for c, cLogic := range subcommands {
		fset := flag.NewFlagSet(c, flag.ExitOnError)
		fset.StringVar(&configPath, "c", "spadesk.yaml", "Configuration file (YAML or TOML)")

		cLogic.SetFlags(fset)

		subcommandsFlagSets[c] = fset
	}

	commandName := os.Args[1]
	command, ok := subcommands[commandName]
	if !ok {
		if strings.Contains(commandName, "help") {
			printHelp()

			os.Exit(0)
		}
		log.Fatalf("unsupported command %s. \nUse 'help' command to print information about supported commands\n", commandName)
	}

	// ExitOnError flag sets never return an error
	_ = subcommandsFlagSets[commandName].Parse(os.Args[2:])

	conf, err := config.Parse(configPath)
	if err != nil {
		log.Fatalf("Unable to parse the configuration: %s", err.Error())
	}

	logger := logger.New(conf.Logger)

	s, err := sqlite.New(conf.DB, conf.Location())
	if err != nil {
		logger.Fatal("Unable to open the database", "error", err.Error())
	}

	if err = s.ApplyMigrations(context.Background(), logger); err != nil {
		s.Close()
		logger.Fatal("Unable to apply migrations", "error", err.Error())
	}

	err = command.Run(conf, s, logger)
	s.Close()
	if err != nil {
		logger.Fatal("Command failed", "command", commandName, "error", err.Error())
	}
}

func printHelp() {
	printUsage()

	names := make([]string, 0, len(subcommands))
	for c := range subcommands {
		names = append(names, c)
	}
	sort.Strings(names)

	for _, c := range names {
		fmt.Printf("subcommand <%s>: %s\n", c, subcommands[c].Description())
		subcommandsFlagSets[c].PrintDefaults()
		fmt.Println()
	}
}

func printUsage() {
	fmt.Printf("usage: spadesk <subcommand> [flags]\n\n")
}
