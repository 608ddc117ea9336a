// Package worker provides initialization and registration helpers for
// Temporal workers hosting the essay scoring workflow and activity.
package worker

import (
	"context"
	"fmt"

	"github.com/ahrav/go-essayscore/internal/judge"
	"github.com/ahrav/go-essayscore/internal/judge/configuration"
	"github.com/ahrav/go-essayscore/internal/scoring"
)

// InitializeJudgeClient builds the external judge client with its full
// middleware chain. Called during worker startup so configuration
// errors and tier resolution happen before the worker accepts tasks.
func InitializeJudgeClient(ctx context.Context, cfg *configuration.Config) (*judge.Client, error) {
	client, err := judge.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize judge client: %w", err)
	}
	return client, nil
}

// InitializePipeline assembles the scoring pipeline for activity use.
// Returns the pipeline for dependency injection rather than setting
// global state.
func InitializePipeline(cfg scoring.Config, deps scoring.Dependencies) (*scoring.Pipeline, error) {
	pipeline, err := scoring.NewPipeline(cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("initialize scoring pipeline: %w", err)
	}
	return pipeline, nil
}
