package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/logging"
)

const consensusInstruction = "Analyze these AI responses and provide a clear, concise consensus answer. " +
	"Be direct and avoid meta-commentary about the analysis process:"

// BuildConsensusPrompt assembles the meta-prompt sent to the consensus tool.
// Responses are numbered from 1 in the order given.
func BuildConsensusPrompt(responses []string) string {
	var b strings.Builder
	b.WriteString(consensusInstruction)
	b.WriteString("\n\n")
	for i, r := range responses {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Response %d: %s", i+1, r)
	}
	return b.String()
}

// Aggregator asks one tool to reconcile the solver answers.
type Aggregator struct {
	runner core.ToolRunner
	logger *logging.Logger
}

// NewAggregator creates a consensus aggregator.
func NewAggregator(runner core.ToolRunner, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Aggregator{runner: runner, logger: logger}
}

// GetConsensus runs spec with the consensus meta-prompt and returns its raw
// output. The user's prompt is not forwarded to the consensus tool.
func (a *Aggregator) GetConsensus(ctx context.Context, spec core.ToolSpec, responses []string, _ string) (string, error) {
	prompt := BuildConsensusPrompt(responses)
	a.logger.WithTool(spec.Key).Debug("requesting consensus",
		"responses", len(responses),
		"prompt_length", len(prompt),
	)
	out, err := a.runner.RunTool(ctx, spec, prompt)
	if err != nil {
		return "", fmt.Errorf("consensus: %w", err)
	}
	return out, nil
}
