package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaeaeich/nbrun/internal/logger"
	"github.com/jaeaeich/nbrun/internal/notebook"
	"github.com/jaeaeich/nbrun/internal/runner"
)

func handleValidateCmd() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	manifest := validateCmd.String("manifest", "", "Validate the notebooks of a YAML step manifest")
	baseDir := validateCmd.String("base-dir", ".", "Directory notebook paths are relative to")

	if err := validateCmd.Parse(os.Args[2:]); err != nil {
		logger.L.Error("error parsing validate command", "error", err)
		os.Exit(1)
	}

	paths := validateCmd.Args()
	if *manifest != "" {
		steps, err := runner.LoadManifest(*manifest)
		if err != nil {
			logger.L.Error("failed to load manifest", "error", err)
			os.Exit(1)
		}
		for _, step := range steps {
			paths = append(paths, filepath.Join(*baseDir, step.NotebookPath))
		}
	}

	if len(paths) == 0 {
		fmt.Println("no notebooks to validate")
		os.Exit(1)
	}

	clean := true
	for _, path := range paths {
		violations, err := notebook.ValidateFile(path)
		if err != nil {
			logger.L.Error("failed to validate notebook", "path", path, "error", err)
			clean = false
			continue
		}
		if len(violations) == 0 {
			fmt.Printf("%s: clean\n", path)
			continue
		}
		clean = false
		for _, v := range violations {
			fmt.Printf("%s: %s\n", path, v)
		}
	}

	if !clean {
		os.Exit(1)
	}
}
