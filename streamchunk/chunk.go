// Package streamchunk implements the two pure transforms over a user
// generator's chunk stream: normalizing a chunk's message content into
// content blocks, and collecting a whole chunk sequence into output
// messages plus accumulated usage.
package streamchunk

import "github.com/tegglabs/agentrt/agent"

// ChunkMessage is the free-form message payload a chunk may carry. Content
// is either a bare string or an ordered sequence of parts, mirroring
// agent.InputMessage's wire shape.
type ChunkMessage struct {
	Role    agent.Role `json:"role"`
	Content any        `json:"content"`
}

// Chunk is one value yielded by the user's generator. Usage and Message are
// both optional; a chunk with neither is a no-op in Collect.
type Chunk struct {
	Message *ChunkMessage
	Usage   *ChunkUsage
}

// ChunkUsage is the optional per-chunk usage payload. Fields default to 0
// when absent on the wire.
type ChunkUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// ToContentBlocks normalizes msg.Content into an ordered sequence of text
// content blocks. A nil msg yields an empty sequence. A string content
// becomes a single text block; a slice of parts keeps only type=="text"
// parts, in order.
func ToContentBlocks(msg *ChunkMessage) []agent.ContentBlock {
	if msg == nil {
		return []agent.ContentBlock{}
	}

	switch content := msg.Content.(type) {
	case string:
		return []agent.ContentBlock{agent.NewTextBlock(content)}
	case []agent.InputMessageContentPart:
		blocks := make([]agent.ContentBlock, 0, len(content))
		for _, part := range content {
			if part.Type != "text" {
				continue
			}
			blocks = append(blocks, agent.NewTextBlock(part.Text))
		}
		return blocks
	default:
		return []agent.ContentBlock{}
	}
}
