package agent

// ContentBlockType identifies the shape of a content block. Text is the only
// kind specified; the field stays a string so future block kinds do not
// require a breaking type change.
type ContentBlockType string

// ContentBlockTypeText is the only content block kind this runtime produces
// or accepts.
const ContentBlockTypeText ContentBlockType = "text"

// TextAnnotation is reserved for future citation/markup metadata. The
// runtime never populates it; it is carried so the wire shape matches the
// Assistants-style content block contract.
type TextAnnotation struct{}

// Text is the payload of a "text" content block.
type Text struct {
	Value       string           `json:"value"`
	Annotations []TextAnnotation `json:"annotations"`
}

// ContentBlock is one ordered unit of message content.
type ContentBlock struct {
	Type ContentBlockType `json:"type"`
	Text Text             `json:"text"`
}

// NewTextBlock builds a text content block with an empty annotation list.
func NewTextBlock(value string) ContentBlock {
	return ContentBlock{
		Type: ContentBlockTypeText,
		Text: Text{
			Value:       value,
			Annotations: []TextAnnotation{},
		},
	}
}

// CloneContentBlocks returns a deep copy suitable for isolation across
// component boundaries.
func CloneContentBlocks(in []ContentBlock) []ContentBlock {
	if in == nil {
		return nil
	}
	out := make([]ContentBlock, len(in))
	for i, block := range in {
		out[i] = ContentBlock{
			Type: block.Type,
			Text: Text{
				Value:       block.Text.Value,
				Annotations: append([]TextAnnotation(nil), block.Text.Annotations...),
			},
		}
	}
	return out
}
