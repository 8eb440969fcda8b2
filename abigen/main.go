// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	dynabi "github.com/pk910/dynamic-abi"
	"github.com/pk910/dynamic-abi/codegen"
)

type config struct {
	manifestFile string
	presetFile   string
	outputFile   string
	run          bool
	headStart    uint64
	verbose      bool
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.manifestFile, "manifest", "", "YAML manifest listing the tuple encodings to generate")
	flag.StringVar(&cfg.presetFile, "preset", "", "YAML file with spec values (overrides manifest specs)")
	flag.StringVar(&cfg.outputFile, "output", "", "Output file path for generated code (stdout if empty)")
	flag.BoolVar(&cfg.run, "run", false, "Execute generated encodings with the manifest sample values")
	flag.Uint64Var(&cfg.headStart, "head-start", 0x80, "Memory offset used as $headStart with -run")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose output")
	flag.Parse()

	logger, err := newLogger(cfg.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.manifestFile == "" {
		logger.Fatal("Manifest file is required (-manifest)")
	}

	if err := run(logger, &cfg); err != nil {
		logger.Fatal("code generation failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(logger *zap.Logger, cfg *config) error {
	manifest, err := loadManifest(cfg.manifestFile)
	if err != nil {
		return err
	}

	specs, err := dynabi.NormalizeSpecValues(manifest.Specs)
	if err != nil {
		return fmt.Errorf("invalid manifest specs: %w", err)
	}
	if cfg.presetFile != "" {
		preset, err := dynabi.LoadSpecPreset(cfg.presetFile)
		if err != nil {
			return err
		}
		for name, value := range preset {
			specs[name] = value
		}
	}

	logger.Debug("loaded manifest",
		zap.String("manifest", cfg.manifestFile),
		zap.Int("tuples", len(manifest.Tuples)),
		zap.Int("specs", len(specs)),
	)

	da := dynabi.NewDynAbi(specs, dynabi.WithLogger(logger))
	cg, err := da.NewCodeGenerator()
	if err != nil {
		return err
	}
	for _, tuple := range manifest.Tuples {
		if err := cg.BuildTuple(tuple.Name, tuple.Source, tuple.Target, tuple.Library); err != nil {
			return err
		}
	}

	result, err := cg.GenerateToResult()
	if err != nil {
		return err
	}

	code, err := codegen.RenderResult(result)
	if err != nil {
		return err
	}

	if cfg.outputFile == "" {
		fmt.Print(code)
	} else {
		if err := os.WriteFile(cfg.outputFile, []byte(code), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("generated tuple encoders", zap.String("output", cfg.outputFile), zap.Int("tuples", len(result.Tuples)))
	}

	if cfg.run {
		return runTuples(logger, result, manifest, cfg.headStart)
	}
	return nil
}
