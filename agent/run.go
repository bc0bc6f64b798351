package agent

// RunStatus captures coarse execution state for persistence and orchestration.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusCancelled  RunStatus = "cancelled"
	// RunStatusCancelling is a permitted transient status (spec §9 Open
	// Question) that this runtime never emits; see DESIGN.md.
	RunStatusCancelling RunStatus = "cancelling"
	RunStatusExpired    RunStatus = "expired"
)

// RunConfig carries optional execution constraints supplied at run creation.
type RunConfig struct {
	MaxIterations int   `json:"max_iterations,omitempty"`
	TimeoutMS     int64 `json:"timeout_ms,omitempty"`
}

// Usage reports token accounting for a completed run.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// LastError records the terminal failure reason for a run.
type LastError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Run is one invocation of an agent's ExecRun, with a full lifecycle and
// persisted state.
type Run struct {
	ID          RunID          `json:"id"`
	Object      string         `json:"object"`
	CreatedAt   int64          `json:"created_at"`
	ThreadID    ThreadID       `json:"thread_id,omitempty"`
	Status      RunStatus      `json:"status"`
	Input       []InputMessage `json:"input"`
	Output      []Message      `json:"output,omitempty"`
	LastError   *LastError     `json:"last_error,omitempty"`
	Usage       *Usage         `json:"usage,omitempty"`
	Config      *RunConfig     `json:"config,omitempty"`
	Metadata    Metadata       `json:"metadata,omitempty"`
	StartedAt   *int64         `json:"started_at,omitempty"`
	CompletedAt *int64         `json:"completed_at,omitempty"`
	CancelledAt *int64         `json:"cancelled_at,omitempty"`
	FailedAt    *int64         `json:"failed_at,omitempty"`
}

const runObject = "thread.run"

// NewRun builds a fresh, queued run record.
func NewRun(input []InputMessage, threadID ThreadID, config *RunConfig, metadata Metadata, now int64) Run {
	return Run{
		ID:        NewRunID(),
		Object:    runObject,
		CreatedAt: now,
		ThreadID:  threadID,
		Status:    RunStatusQueued,
		Input:     input,
		Config:    config,
		Metadata:  normalizeMetadata(metadata),
	}
}

// CloneRun returns a deep copy safe for in-memory stores and concurrent readers.
func CloneRun(in Run) Run {
	out := in
	out.Input = append([]InputMessage(nil), in.Input...)
	out.Output = CloneMessages(in.Output)
	out.Metadata = CloneMetadata(in.Metadata)
	if in.LastError != nil {
		errCopy := *in.LastError
		out.LastError = &errCopy
	}
	if in.Usage != nil {
		usageCopy := *in.Usage
		out.Usage = &usageCopy
	}
	if in.Config != nil {
		cfgCopy := *in.Config
		out.Config = &cfgCopy
	}
	if in.StartedAt != nil {
		v := *in.StartedAt
		out.StartedAt = &v
	}
	if in.CompletedAt != nil {
		v := *in.CompletedAt
		out.CompletedAt = &v
	}
	if in.CancelledAt != nil {
		v := *in.CancelledAt
		out.CancelledAt = &v
	}
	if in.FailedAt != nil {
		v := *in.FailedAt
		out.FailedAt = &v
	}
	return out
}

// IsTerminal reports whether status is one of the sticky terminal states.
func IsTerminal(status RunStatus) bool {
	switch status {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	default:
		return false
	}
}
