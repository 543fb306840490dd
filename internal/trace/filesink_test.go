package trace

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileSink(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("create and write events", func(t *testing.T) {
		sink, err := NewFileSink(tmpDir)
		if err != nil {
			t.Fatalf("failed to create file sink: %v", err)
		}

		expectedPath := filepath.Join(tmpDir, DefaultFilename)
		if sink.Path() != expectedPath {
			t.Errorf("Path() = %q, want %q", sink.Path(), expectedPath)
		}

		testEvents := []Event{
			{
				Timestamp: time.Now(),
				CallID:    "call-1",
				Type:      EventReduce,
				Hint:      "Sequence[int]",
			},
			{
				Timestamp: time.Now(),
				CallID:    "call-1",
				Type:      EventViolation,
				Hint:      "Sequence[int]",
				Detail:    "sequence index 1 item value x not int",
			},
		}

		if writeErr := sink.Write(testEvents); writeErr != nil {
			t.Fatalf("failed to write events: %v", writeErr)
		}
		if closeErr := sink.Close(); closeErr != nil {
			t.Fatalf("failed to close sink: %v", closeErr)
		}

		readEvents, readErr := ReadEvents(sink.Path())
		if readErr != nil {
			t.Fatalf("failed to read events: %v", readErr)
		}
		if len(readEvents) != 2 {
			t.Fatalf("expected 2 events, got %d", len(readEvents))
		}
		if readEvents[0].Type != EventReduce {
			t.Errorf("event[0].Type = %q, want %q", readEvents[0].Type, EventReduce)
		}
		if readEvents[1].Detail != testEvents[1].Detail {
			t.Errorf("event[1].Detail = %q, want %q", readEvents[1].Detail, testEvents[1].Detail)
		}
	})

	t.Run("append mode", func(t *testing.T) {
		sink, err := NewFileSink(tmpDir)
		if err != nil {
			t.Fatalf("failed to reopen file sink: %v", err)
		}
		if err := sink.WriteOne(Event{CallID: "call-2", Type: EventCheck, Detail: "pass"}); err != nil {
			t.Fatalf("failed to write event: %v", err)
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("failed to close sink: %v", err)
		}

		readEvents, err := ReadEvents(sink.Path())
		if err != nil {
			t.Fatalf("failed to read events: %v", err)
		}
		if len(readEvents) != 3 {
			t.Errorf("expected 3 events after append, got %d", len(readEvents))
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		sink, err := NewFileSink(tmpDir)
		if err != nil {
			t.Fatalf("failed to create file sink: %v", err)
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("first Close() error = %v", err)
		}
		if err := sink.Close(); err != nil {
			t.Errorf("second Close() error = %v, want nil", err)
		}
	})
}

func TestFileSinkBadDirectory(t *testing.T) {
	if _, err := NewFileSink("/nonexistent/path/to/nowhere"); err == nil {
		t.Error("NewFileSink() error = nil, want error for missing directory")
	}
}

func TestFilterByType(t *testing.T) {
	events := []Event{
		{Type: EventReduce},
		{Type: EventCheck},
		{Type: EventViolation},
		{Type: EventCheck},
	}

	got := FilterByType(events, EventCheck)
	if len(got) != 2 {
		t.Errorf("FilterByType(check) = %d events, want 2", len(got))
	}

	got = FilterByType(events)
	if len(got) != len(events) {
		t.Errorf("FilterByType() with no types = %d events, want all %d", len(got), len(events))
	}
}

func TestFilterByCall(t *testing.T) {
	events := []Event{
		{CallID: "a", Type: EventReduce},
		{CallID: "b", Type: EventReduce},
		{CallID: "a", Type: EventCheck},
	}

	got := FilterByCall(events, "a")
	if len(got) != 2 {
		t.Errorf("FilterByCall(a) = %d events, want 2", len(got))
	}
	got = FilterByCall(events, "")
	if len(got) != 3 {
		t.Errorf("FilterByCall(\"\") = %d events, want all 3", len(got))
	}
}

func TestIsValidEventType(t *testing.T) {
	for _, valid := range ValidEventTypes() {
		if !IsValidEventType(string(valid)) {
			t.Errorf("IsValidEventType(%q) = false, want true", valid)
		}
	}
	if IsValidEventType("bogus") {
		t.Error("IsValidEventType(bogus) = true, want false")
	}
	// Retired event types stay invalid: every valid type has an emitter.
	if IsValidEventType("cache_hit") {
		t.Error("IsValidEventType(cache_hit) = true, want false")
	}
}
