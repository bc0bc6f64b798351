package agent

import (
	"encoding/json"
	"fmt"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleSystem only ever appears on InputMessage; it is stripped before
	// anything is appended to a Thread (spec invariant: thread history
	// contains only user and assistant messages).
	RoleSystem Role = "system"
)

// MessageStatus tracks a message's place in its own (short) lifecycle.
type MessageStatus string

const (
	MessageStatusInProgress MessageStatus = "in_progress"
	MessageStatusIncomplete MessageStatus = "incomplete"
	MessageStatusCompleted  MessageStatus = "completed"
)

// Message is the shared shape for both thread history entries and run output.
type Message struct {
	ID        MessageID      `json:"id"`
	Object    string         `json:"object"`
	CreatedAt int64          `json:"created_at"`
	ThreadID  ThreadID       `json:"thread_id,omitempty"`
	RunID     RunID          `json:"run_id,omitempty"`
	Role      Role           `json:"role"`
	Status    MessageStatus  `json:"status"`
	Content   []ContentBlock `json:"content"`
	Metadata  Metadata       `json:"metadata,omitempty"`
}

const messageObject = "thread.message"

// InputMessageContentPart is one element of a structured InputMessage.Content
// sequence. Only parts with Type == "text" are kept by ToContentBlocks; any
// other kind is dropped, matching spec §4.2.
type InputMessageContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// InputMessage is a message as submitted by the caller in CreateRunInput.
// Content is either a bare string or an ordered sequence of parts; ParseContent
// normalizes both shapes at the JSON boundary.
type InputMessage struct {
	Role     Role     `json:"role"`
	Content  any      `json:"content"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// UnmarshalJSON normalizes Content through ParseContent so callers always
// see either a string or a []InputMessageContentPart, never the bare
// []interface{} encoding/json would otherwise produce for a JSON array.
func (m *InputMessage) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Role     Role            `json:"role"`
		Content  json.RawMessage `json:"content"`
		Metadata Metadata        `json:"metadata,omitempty"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	content, err := ParseContent(shadow.Content)
	if err != nil {
		return err
	}

	m.Role = shadow.Role
	m.Content = content
	m.Metadata = shadow.Metadata
	return nil
}

// ParseContent normalizes a raw JSON content value into either a string or
// a []InputMessageContentPart, keeping only text parts' shape intact for
// ToContentBlocks to filter. Any other JSON shape is rejected.
func ParseContent(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var parts []InputMessageContentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("%w: content must be a string or an array of {type,text} parts", ErrInvalidArgument)
	}
	return parts, nil
}

// NewMessage builds a completed message from content blocks, stamping a
// fresh id and the given role/run association. now is injected so callers
// control the clock deterministically.
func NewMessage(role Role, runID RunID, threadID ThreadID, content []ContentBlock, now int64) Message {
	return Message{
		ID:        NewMessageID(),
		Object:    messageObject,
		CreatedAt: now,
		ThreadID:  threadID,
		RunID:     runID,
		Role:      role,
		Status:    MessageStatusCompleted,
		Content:   CloneContentBlocks(content),
		Metadata:  Metadata{},
	}
}

// CloneMessage returns a deep copy safe for in-memory stores and concurrent readers.
func CloneMessage(in Message) Message {
	out := in
	out.Content = CloneContentBlocks(in.Content)
	out.Metadata = CloneMetadata(in.Metadata)
	return out
}

// CloneMessages returns deep copies of all messages, preserving order.
func CloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, len(in))
	for i := range in {
		out[i] = CloneMessage(in[i])
	}
	return out
}
