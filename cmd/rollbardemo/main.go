package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rollbardemo/internal/app"
)

const (
	exitCodeFailure = 1
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// run starts the demo process.
// Params: none.
// Returns: process exit code.
func run() int {
	var (
		configDir   string
		environment string
		filter      string
		showInfo    bool
	)

	flag.StringVar(&configDir, "config", ".", "directory containing settings files")
	flag.StringVar(&environment, "env", "", "environment name override")
	flag.StringVar(&filter, "scenario", "", "run scenarios matching this wildcard pattern and exit")
	flag.BoolVar(&showInfo, "v", false, "show build information")
	flag.BoolVar(&showInfo, "version", false, "show build information")
	flag.Parse()

	if showInfo {
		fmt.Printf("rollbardemo version=%s commit=%s date=%s\n", version, commit, date)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := app.Runtime{
		ConfigDir:      configDir,
		Environment:    environment,
		ScenarioFilter: filter,
		Input:          os.Stdin,
		Output:         os.Stdout,
	}
	if err := app.Run(ctx, rt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCodeFailure
	}

	return 0
}

func main() {
	os.Exit(run())
}
