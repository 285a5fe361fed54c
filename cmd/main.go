// Package main provides the entry point for the nbrun harness.
package main

import (
	"fmt"
	"os"

	"github.com/jaeaeich/nbrun/internal/config"
	"github.com/jaeaeich/nbrun/internal/logger"
)

const usage = "expected 'run', 'verify', 'validate' or 'serve' subcommands"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	if err := config.Load(); err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(config.Cfg.Log.Level, config.Cfg.Log.Format)

	switch os.Args[1] {
	case "run":
		handleRunCmd()
	case "verify":
		handleVerifyCmd()
	case "validate":
		handleValidateCmd()
	case "serve":
		handleServeCmd()
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}
