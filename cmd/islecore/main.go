// IsleCore is a turn-based island exploration and combat game.
// Usage: islecore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] [world]
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nathoo/islecore/cli"
	"github.com/nathoo/islecore/config"
	"github.com/nathoo/islecore/engine"
	"github.com/nathoo/islecore/loader"
	"github.com/nathoo/islecore/session"
	"github.com/nathoo/islecore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: islecore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] [world]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	var scriptFile string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("islecore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			cfg.Plain = true
		case "--trace":
			cfg.Trace = true
		case "--script":
			if i+1 >= len(args) {
				config.Exitf("--script requires a file path")
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				config.Exitf("--seed requires a number")
			}
			i++
			seed, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				config.Exitf("--seed: %v", err)
			}
			cfg.Seed = seed
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			cfg.World = args[i]
		}
	}

	log, closer, err := cfg.Logger()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer closer.Close()

	reg, err := loader.Load(cfg.World, loader.WithLogger(log))
	if err != nil {
		config.Exitf("Error loading world %s: %v\n%s", cfg.World, err, usage)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("starting", "world", cfg.World, "seed", seed, "version", version)

	eng := engine.New(reg,
		engine.WithLogger(log),
		engine.WithSeed(seed),
		engine.WithReflexBudget(cfg.ReflexBudget),
	)
	s := session.New(eng, session.WithLogger(log))

	// Script mode: read commands from a file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			config.Exitf("Error opening script: %v", err)
		}
		defer f.Close()
		c := cli.New(s)
		c.In = f
		c.EchoInput = true
		c.Trace = cfg.Trace
		c.Run()
		return
	}

	// Use the plain CLI if asked to or when stdout is not a terminal.
	if cfg.Plain || !isTerminal() {
		c := cli.New(s)
		c.Trace = cfg.Trace
		c.Run()
		return
	}

	if err := tui.Run(s); err != nil {
		config.Exitf("Error: %v", err)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
