package streamchunk

import "github.com/tegglabs/agentrt/agent"

// Collect drains chunks in order, producing one output Message per chunk
// whose Message field is present, and accumulating usage across every chunk
// whose Usage field is present. usage is nil unless at least one chunk
// carried usage data.
func Collect(chunks []Chunk, runID agent.RunID, now int64) (output []agent.Message, usage *agent.Usage) {
	var acc agent.Usage
	hasUsage := false

	for _, chunk := range chunks {
		if chunk.Message != nil {
			blocks := ToContentBlocks(chunk.Message)
			msg := agent.NewMessage(agent.RoleAssistant, runID, "", blocks, now)
			output = append(output, msg)
		}
		if chunk.Usage != nil {
			acc.PromptTokens += chunk.Usage.PromptTokens
			acc.CompletionTokens += chunk.Usage.CompletionTokens
			hasUsage = true
		}
	}

	if !hasUsage {
		return output, nil
	}
	acc.TotalTokens = acc.PromptTokens + acc.CompletionTokens
	return output, &acc
}
