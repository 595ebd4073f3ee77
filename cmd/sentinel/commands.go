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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/sentinel/evaluation"
	"github.com/AleutianAI/sentinel/execution"
	"github.com/AleutianAI/sentinel/generation"
	"github.com/AleutianAI/sentinel/llm"
	"github.com/AleutianAI/sentinel/pkg/config"
	"github.com/AleutianAI/sentinel/pkg/logging"
	"github.com/AleutianAI/sentinel/server"
	"github.com/AleutianAI/sentinel/telemetry"
)

// --- Global Command Variables ---
var (
	configPath string

	// evaluate flags
	evalFile       string
	evalTask       string
	evalLanguage   string
	evalOriginal   string
	evalIterations int

	rootCmd = &cobra.Command{
		Use:   "sentinel",
		Short: "A service that evaluates AI-proposed code changes",
		Long: `Sentinel runs AI-proposed code changes through an iterative
TDD test-generation loop, scores test quality and task relevance,
asks an LLM for a risk assessment, and combines the signals into
an accept or reject verdict.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the Sentinel HTTP/WebSocket server",
		RunE:  runServe, // Defined in cmd_serve.go
	}

	evaluateCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one proposed code change and print the verdict as JSON",
		RunE:  runEvaluate, // Defined in cmd_evaluate.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sentinel.json",
		"Path to the JSON config file (missing file uses defaults)")

	evaluateCmd.Flags().StringVar(&evalFile, "file", "", "File containing the proposed code (required)")
	evaluateCmd.Flags().StringVar(&evalTask, "task", "", "Task description the code is meant to implement")
	evaluateCmd.Flags().StringVar(&evalLanguage, "language", "", "Language override (detected when empty)")
	evaluateCmd.Flags().StringVar(&evalOriginal, "original", "", "File containing the original code, if any")
	evaluateCmd.Flags().IntVar(&evalIterations, "iterations", 0, "TDD loop length override")
	_ = evaluateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evaluateCmd)
}

// newLogger builds the process logger from config and installs it as
// the slog default so package-level logging flows through it.
func newLogger(cfg config.Config, service string) *logging.Logger {
	logger := logging.New(logging.Config{
		Level:   parseLevel(cfg.LogLevel),
		LogDir:  cfg.LogDir,
		Service: service,
	})
	slog.SetDefault(logger.Slog())
	return logger
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// pipeline bundles the evaluator with the components that accept
// live configuration updates.
type pipeline struct {
	evaluator    *evaluation.Evaluator
	orchestrator *generation.Orchestrator
}

// newPipeline assembles the full pipeline from config.
func newPipeline(cfg config.Config) (*pipeline, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	gate := llm.NewGate(client)

	orchestrator := generation.NewOrchestrator(gate, telemetry.NewSlogSink(slog.Default()), nil)
	orchestrator.SetUseFallback(cfg.UseFallbackTests)

	engine := execution.NewEngine(nil)
	risk := evaluation.NewRiskAnalyzer(gate, nil)

	return &pipeline{
		evaluator:    evaluation.NewEvaluator(orchestrator, engine, risk, nil),
		orchestrator: orchestrator,
	}, nil
}

// newReloadHandler returns the callback the config watcher invokes on
// a valid file change. It pushes the reloadable settings into the
// running components; handlers may be nil for the one-shot CLI.
func newReloadHandler(logger *logging.Logger, p *pipeline, handlers *server.Handlers) func(config.Config) {
	return func(next config.Config) {
		logger.SetLevel(parseLevel(next.LogLevel))
		p.orchestrator.SetUseFallback(next.UseFallbackTests)
		if handlers != nil {
			handlers.SetDefaultIterations(next.MaxIterations)
		}
		slog.Info("Configuration reloaded",
			"log_level", next.LogLevel,
			"use_fallback_tests", next.UseFallbackTests,
			"max_iterations", next.MaxIterations)
	}
}

func newClient(cfg config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case "ollama":
		return llm.NewOllamaClient(cfg.OllamaURL, cfg.Model), nil
	case "openai":
		return llm.NewOpenAIClient()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
