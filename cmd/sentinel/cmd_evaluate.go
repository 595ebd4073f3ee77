// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/pkg/config"
)

// runEvaluate runs the pipeline once against a file and prints the
// EvaluationResult as indented JSON on stdout.
func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, "sentinel-cli")
	defer logger.Close()

	proposed, err := os.ReadFile(evalFile)
	if err != nil {
		return fmt.Errorf("read proposed code: %w", err)
	}

	var original string
	if evalOriginal != "" {
		raw, err := os.ReadFile(evalOriginal)
		if err != nil {
			return fmt.Errorf("read original code: %w", err)
		}
		original = string(raw)
	}

	maxIterations := cfg.MaxIterations
	if evalIterations > 0 {
		maxIterations = evalIterations
	}

	task := datatypes.TaskContext{
		TaskDescription: evalTask,
		OriginalCode:    original,
		ProposedCode:    string(proposed),
		Language:        evalLanguage,
		MaxIterations:   maxIterations,
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.evaluator.Evaluate(context.Background(), &task)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
