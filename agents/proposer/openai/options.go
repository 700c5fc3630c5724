/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package openai

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/esonparedes/agentic-devops-engr/agents/metrics"
	"github.com/esonparedes/agentic-devops-engr/agents/retry"
)

// Option configures the OpenAI proposer.
type Option func(*Proposer)

// WithAPIKey constructs the API client from a key. Without this (or
// WithClient) the SDK falls back to the OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(p *Proposer) {
		p.client = openai.NewClient(option.WithAPIKey(key))
	}
}

// WithClient supplies a pre-built API client, typically for tests.
func WithClient(client openai.Client) Option {
	return func(p *Proposer) {
		p.client = client
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(p *Proposer) {
		p.model = model
	}
}

// WithMaxTokens overrides the completion token cap.
func WithMaxTokens(n int64) Option {
	return func(p *Proposer) {
		p.maxTokens = n
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(p *Proposer) {
		p.temperature = t
	}
}

// WithRetryConfig overrides the endpoint retry schedule.
func WithRetryConfig(cfg retry.Config) Option {
	return func(p *Proposer) {
		p.retryConfig = cfg
	}
}

// WithMetrics installs a shared GenAI metrics instance.
func WithMetrics(m *metrics.GenAI) Option {
	return func(p *Proposer) {
		p.genaiMetrics = m
	}
}
