package handlers_test

import (
	"context"
	"time"

	"github.com/tegglabs/agentrt/agent"
	"github.com/tegglabs/agentrt/handlers"
	"github.com/tegglabs/agentrt/streamchunk"
)

// scriptedExecRunner replays a fixed sequence of results. If delayBeforeIndex
// is set, it sleeps that long before yielding the item at that index, then
// checks ctx before sending — letting tests simulate a slow, cooperative
// producer that cancelRun can interrupt mid-stream.
type scriptedExecRunner struct {
	results          []handlers.Result
	delayBeforeIndex int
	delayDuration    time.Duration
}

func (s *scriptedExecRunner) ExecRun(ctx context.Context, _ []agent.InputMessage) (<-chan handlers.Result, error) {
	ch := make(chan handlers.Result)
	go func() {
		defer close(ch)
		for i, res := range s.results {
			if i == s.delayBeforeIndex && s.delayDuration > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.delayDuration):
				}
			}
			select {
			case <-ctx.Done():
				return
			case ch <- res:
			}
		}
	}()
	return ch, nil
}

// failingStartExecRunner fails before producing any channel at all.
type failingStartExecRunner struct {
	err error
}

func (f failingStartExecRunner) ExecRun(context.Context, []agent.InputMessage) (<-chan handlers.Result, error) {
	return nil, f.err
}

func chunkResult(content string) handlers.Result {
	return handlers.Result{Chunk: streamchunk.Chunk{Message: &streamchunk.ChunkMessage{Content: content}}}
}

func usageResult(prompt, completion int) handlers.Result {
	return handlers.Result{Chunk: streamchunk.Chunk{Usage: &streamchunk.ChunkUsage{PromptTokens: prompt, CompletionTokens: completion}}}
}

func errResult(err error) handlers.Result {
	return handlers.Result{Err: err}
}
