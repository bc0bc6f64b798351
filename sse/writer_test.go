package sse_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tegglabs/agentrt/sse"
)

func TestWriter_PrepareSetsHeadersOnce(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	w.Prepare()
	w.Prepare()

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content-type: %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("unexpected cache-control: %q", got)
	}
	if got := rec.Header().Get("Connection"); got != "keep-alive" {
		t.Fatalf("unexpected connection: %q", got)
	}
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestWriter_WriteEventFramesJSONWithBlankLineTerminator(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if err := w.WriteEvent("thread.run.created", map[string]string{"id": "run_1"}); err != nil {
		t.Fatalf("write event: %v", err)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "event: thread.run.created\ndata: ") {
		t.Fatalf("unexpected frame prefix: %q", body)
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Fatalf("expected frame to end with a blank line, got %q", body)
	}
	if !strings.Contains(body, `"id":"run_1"`) {
		t.Fatalf("expected payload in frame, got %q", body)
	}
}

func TestWriter_WriteDoneEmitsLiteralDoneFrame(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if err := w.WriteDone(); err != nil {
		t.Fatalf("write done: %v", err)
	}
	if got := rec.Body.String(); got != "event: done\ndata: [DONE]\n\n" {
		t.Fatalf("unexpected done frame: %q", got)
	}
}

func TestWriter_MultipleEventsPreserveOrder(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := sse.NewWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	names := []string{"thread.run.created", "thread.run.in_progress", "thread.message.created"}
	for _, name := range names {
		if err := w.WriteEvent(name, map[string]string{"event": name}); err != nil {
			t.Fatalf("write event %q: %v", name, err)
		}
	}
	if err := w.WriteDone(); err != nil {
		t.Fatalf("write done: %v", err)
	}

	frames := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n\n"), "\n\n")
	if len(frames) != len(names)+1 {
		t.Fatalf("expected %d frames, got %d: %q", len(names)+1, len(frames), rec.Body.String())
	}
	for i, name := range names {
		if !strings.HasPrefix(frames[i], "event: "+name+"\n") {
			t.Fatalf("frame %d out of order: %q", i, frames[i])
		}
	}
	if !strings.HasPrefix(frames[len(frames)-1], "event: done\n") {
		t.Fatalf("expected final frame to be done, got %q", frames[len(frames)-1])
	}
}
