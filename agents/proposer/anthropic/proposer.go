/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/chainguard-dev/clog"

	"github.com/esonparedes/agentic-devops-engr/agents/metrics"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer/params"
	"github.com/esonparedes/agentic-devops-engr/agents/result"
	"github.com/esonparedes/agentic-devops-engr/agents/retry"
	"github.com/esonparedes/agentic-devops-engr/agents/schema"
)

// Proposer asks Claude for a change proposal.
type Proposer struct {
	client       anthropic.Client
	model        string
	maxTokens    int64
	temperature  float64
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

var _ proposer.Proposer = (*Proposer)(nil)

// New constructs a Claude-backed proposer.
func New(opts ...Option) (*Proposer, error) {
	p := &Proposer{
		client:       anthropic.NewClient(),
		model:        "claude-sonnet-4-5",
		maxTokens:    16384,
		temperature:  0.1,
		retryConfig:  retry.DefaultConfig(),
		genaiMetrics: metrics.NewGenAI(metrics.MeterName),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.model == "" {
		return nil, errors.New("model cannot be empty")
	}
	return p, nil
}

// Propose implements proposer.Proposer.
func (p *Proposer) Propose(ctx context.Context, req proposer.Request) (*proposer.Proposal, error) {
	log := clog.FromContext(ctx)

	system, user, err := proposer.Prompts(req)
	if err != nil {
		return nil, err
	}

	tool, err := submitTool()
	if err != nil {
		return nil, err
	}

	reqParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(user),
			},
		}},
		Tools: []anthropic.ToolUnionParam{{OfTool: &tool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: proposer.ToolName},
		},
	}
	reqParams.Temperature = anthropic.Float(p.temperature)

	message, err := retry.Do(ctx, p.retryConfig, "propose", isRetryable, func() (anthropic.Message, error) {
		stream := p.client.Messages.NewStreaming(ctx, reqParams)
		var msg anthropic.Message
		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				return msg, fmt.Errorf("accumulating stream event: %w", err)
			}
		}
		if err := stream.Err(); err != nil {
			return msg, err
		}
		return msg, nil
	})
	if err != nil {
		return nil, fmt.Errorf("streaming Claude response: %w", err)
	}

	usage := proposer.Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	if usage.InputTokens > 0 || usage.OutputTokens > 0 {
		p.genaiMetrics.RecordTokens(ctx, p.model, usage.InputTokens, usage.OutputTokens)
	}

	var textContent string
	for _, content := range message.Content {
		switch content.Type {
		case "tool_use":
			if content.Name != proposer.ToolName {
				log.With("tool", content.Name).Warn("Ignoring unexpected tool call")
				continue
			}
			p.genaiMetrics.RecordToolCall(ctx, p.model, content.Name)
			prop, err := decodeSubmission(ctx, content.Input)
			if err != nil {
				return nil, fmt.Errorf("decoding %s payload: %w", proposer.ToolName, err)
			}
			prop.Usage = usage
			p.genaiMetrics.RecordProposal(ctx, p.model, string(prop.Verdict))
			return prop, nil
		case "text":
			textContent = content.Text
		}
	}

	// Text-only reply: extract the JSON object from prose.
	if textContent != "" {
		prop, err := result.Extract[proposer.Proposal](textContent)
		if err != nil {
			log.With("response", textContent).With("error", err).Error("Failed to parse Claude response")
			return nil, fmt.Errorf("parsing response: %w", err)
		}
		prop.Usage = usage
		p.genaiMetrics.RecordProposal(ctx, p.model, string(prop.Verdict))
		return &prop, nil
	}

	return nil, errors.New("no content in Claude's response")
}

// submitTool builds the single tool definition. The payload property embeds
// the Proposal schema.
func submitTool() (anthropic.ToolParam, error) {
	payloadSchema, err := schema.MapForType[proposer.Proposal]()
	if err != nil {
		return anthropic.ToolParam{}, fmt.Errorf("deriving proposal schema: %w", err)
	}

	return anthropic.ToolParam{
		Name:        proposer.ToolName,
		Description: anthropic.String("Submit the finished change proposal."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
			Properties: map[string]any{
				proposer.ReasoningField: map[string]any{
					"type":        "string",
					"description": "Explain why you are confident this proposal is complete and safe.",
				},
				proposer.PayloadField: payloadSchema,
			},
			Required: []string{proposer.ReasoningField, proposer.PayloadField},
		},
	}, nil
}

func decodeSubmission(ctx context.Context, input json.RawMessage) (*proposer.Proposal, error) {
	var args map[string]any
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("unmarshaling tool input: %w", err)
	}

	reasoning, err := params.ExtractOptional(args, proposer.ReasoningField, "")
	if err != nil {
		return nil, err
	}
	if reasoning != "" {
		clog.FromContext(ctx).With("reasoning", reasoning).Info("Submitting proposal")
	}

	payload, err := params.Extract[map[string]any](args, proposer.PayloadField)
	if err != nil {
		return nil, err
	}

	prop, err := params.Decode[proposer.Proposal](payload)
	if err != nil {
		return nil, err
	}
	return &prop, nil
}
