/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package google

import (
	"google.golang.org/genai"

	"github.com/esonparedes/agentic-devops-engr/agents/metrics"
	"github.com/esonparedes/agentic-devops-engr/agents/retry"
)

// Option configures the Gemini proposer.
type Option func(*Proposer)

// WithAPIKey routes calls through the Gemini API with the given key.
func WithAPIKey(key string) Option {
	return func(p *Proposer) {
		p.apiKey = key
	}
}

// WithVertex routes calls through Vertex AI in the given project and region.
func WithVertex(projectID, location string) Option {
	return func(p *Proposer) {
		p.projectID = projectID
		p.location = location
	}
}

// WithClient supplies a pre-built genai client, typically for tests.
func WithClient(client *genai.Client) Option {
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

// WithMaxOutputTokens overrides the response token cap.
func WithMaxOutputTokens(n int32) Option {
	return func(p *Proposer) {
		p.maxOutputTokens = n
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) Option {
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
