package agent

import "github.com/google/uuid"

// ThreadID is the stable identifier for a Thread record, always prefixed "thread_".
type ThreadID string

// RunID is the stable identifier for a Run record, always prefixed "run_".
type RunID string

// MessageID is the stable identifier for a Message, always prefixed "msg_".
type MessageID string

const (
	threadIDPrefix  = "thread_"
	runIDPrefix     = "run_"
	messageIDPrefix = "msg_"
)

// NewThreadID generates a fresh, globally unique thread id.
func NewThreadID() ThreadID {
	return ThreadID(threadIDPrefix + uuid.NewString())
}

// NewRunID generates a fresh, globally unique run id.
func NewRunID() RunID {
	return RunID(runIDPrefix + uuid.NewString())
}

// NewMessageID generates a fresh, globally unique message id.
func NewMessageID() MessageID {
	return MessageID(messageIDPrefix + uuid.NewString())
}
