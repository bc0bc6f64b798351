package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/handlers"
	"github.com/tegglabs/agentrt/streamchunk"
)

// echoExecRunner is a deterministic ExecRunner used to make this binary
// runnable end to end without wiring a real model provider, grounded on
// the teacher's mocks.Model: it reflects the latest user message back as a
// two-chunk stream (content, then usage) rather than calling out anywhere.
type echoExecRunner struct{}

func (echoExecRunner) ExecRun(ctx context.Context, input []agent.InputMessage) (<-chan handlers.Result, error) {
	ch := make(chan handlers.Result, 2)

	latest := latestUserContent(input)
	reply := fmt.Sprintf("echo: processed %d message(s), latest user content: %q", len(input), latest)

	select {
	case <-ctx.Done():
		close(ch)
		return ch, ctx.Err()
	default:
	}

	ch <- handlers.Result{Chunk: streamchunk.Chunk{
		Message: &streamchunk.ChunkMessage{Role: agent.RoleAssistant, Content: reply},
	}}
	ch <- handlers.Result{Chunk: streamchunk.Chunk{
		Usage: &streamchunk.ChunkUsage{PromptTokens: len(input), CompletionTokens: 1},
	}}
	close(ch)

	return ch, nil
}

func latestUserContent(input []agent.InputMessage) string {
	for i := len(input) - 1; i >= 0; i-- {
		if input[i].Role != agent.RoleUser {
			continue
		}
		if text, ok := input[i].Content.(string); ok {
			return text
		}
		return flattenParts(input[i].Content)
	}
	return ""
}

func flattenParts(content any) string {
	parts, ok := content.([]agent.InputMessageContentPart)
	if !ok {
		return ""
	}
	var texts []string
	for _, part := range parts {
		if part.Type == "text" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, " ")
}
