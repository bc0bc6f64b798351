// Package sse writes Server-Sent-Events frames to an http.ResponseWriter,
// grounded on the teacher's runstream broker's response contract but
// producing true `text/event-stream` framing instead of NDJSON long-poll.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported is returned by NewWriter when the underlying
// http.ResponseWriter cannot be flushed incrementally.
var ErrStreamingUnsupported = errors.New("sse: response writer does not support flushing")

// Writer frames values as SSE events on an http.ResponseWriter, flushing
// after every write so no chunk is buffered on the wire.
type Writer struct {
	w           http.ResponseWriter
	flusher     http.Flusher
	headersSent bool
}

// NewWriter wraps w. It returns ErrStreamingUnsupported if w cannot be
// flushed incrementally.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &Writer{w: w, flusher: flusher}, nil
}

// Prepare sets the SSE response headers and flushes them immediately, so
// the client sees a response even before the first event. Safe to call
// more than once; later calls are no-ops.
func (sw *Writer) Prepare() {
	if sw.headersSent {
		return
	}
	sw.w.Header().Set("Content-Type", "text/event-stream")
	sw.w.Header().Set("Cache-Control", "no-cache")
	sw.w.Header().Set("Connection", "keep-alive")
	sw.w.WriteHeader(http.StatusOK)
	sw.flusher.Flush()
	sw.headersSent = true
}

// WriteEvent frames payload as JSON under the given event name and flushes
// it to the client.
func (sw *Writer) WriteEvent(name string, payload any) error {
	sw.Prepare()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sse: marshal event %q: %w", name, err)
	}
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("sse: write event %q: %w", name, err)
	}
	sw.flusher.Flush()
	return nil
}

// WriteDone writes the terminal `done` frame with the literal payload
// `[DONE]`.
func (sw *Writer) WriteDone() error {
	sw.Prepare()

	if _, err := fmt.Fprint(sw.w, "event: done\ndata: [DONE]\n\n"); err != nil {
		return fmt.Errorf("sse: write done frame: %w", err)
	}
	sw.flusher.Flush()
	return nil
}
