/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/esonparedes/agentic-devops-engr/agents/metrics"
	"github.com/esonparedes/agentic-devops-engr/agents/retry"
)

// Option configures the Claude proposer.
type Option func(*Proposer)

// WithAPIKey constructs the API client from a key. Without this (or
// WithClient) the SDK falls back to the ANTHROPIC_API_KEY environment
// variable.
func WithAPIKey(key string) Option {
	return func(p *Proposer) {
		p.client = anthropic.NewClient(option.WithAPIKey(key))
	}
}

// WithClient supplies a pre-built API client, typically for Vertex-routed
// access or tests.
func WithClient(client anthropic.Client) Option {
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

// WithMaxTokens overrides the response token cap.
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

// WithMetrics installs a shared GenAI metrics instance, typically one with
// an attribute enricher attached.
func WithMetrics(m *metrics.GenAI) Option {
	return func(p *Proposer) {
		p.genaiMetrics = m
	}
}
