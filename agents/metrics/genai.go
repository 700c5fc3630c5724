/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the shared instrumentation scope for all proposer backends.
// The model name is a dimension on each recorded metric, so one meter serves
// every provider.
const MeterName = "agentic.devops.proposer"

// GenAI provides OpenTelemetry counters for generative AI operations: token
// usage, tool calls, and proposal verdicts. Counter creation degrades to
// no-ops on failure so metrics problems never break a run.
type GenAI struct {
	meter            metric.Meter
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	proposals        metric.Int64Counter
	attrEnricher     AttributeEnricher
}

// NewGenAI creates a GenAI metrics instance on the given meter name. Pass
// MeterName unless tests need isolation.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, recording disabled", "counter", name, "error", err, "meter", meterName)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		meter:            meter,
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		toolCalls:        counter("genai.tool.calls", "The number of tool calls made during proposal generation", "{calls}"),
		proposals:        counter("genai.proposals", "The number of proposals produced, by verdict", "{proposals}"),
	}
}

// SetAttributeEnricher installs an enricher invoked before every record call
// to add contextual attributes (repository, change request, run id).
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

// RecordTokens records prompt and completion token usage for one model call.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	base := m.enrich(ctx, []attribute.KeyValue{
		attribute.String("model", model),
	}, attrs)

	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(base...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(base...))
}

// RecordToolCall records one tool invocation made by the model.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string, attrs ...attribute.KeyValue) {
	base := m.enrich(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
	}, attrs)

	m.toolCalls.Add(ctx, 1, metric.WithAttributes(base...))
}

// RecordProposal records a completed proposal and its verdict.
func (m *GenAI) RecordProposal(ctx context.Context, model, verdict string, attrs ...attribute.KeyValue) {
	base := m.enrich(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("verdict", verdict),
	}, attrs)

	m.proposals.Add(ctx, 1, metric.WithAttributes(base...))
}

func (m *GenAI) enrich(ctx context.Context, base []attribute.KeyValue, extra []attribute.KeyValue) []attribute.KeyValue {
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return append(base, extra...)
}
