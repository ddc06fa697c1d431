package events

import (
	"errors"
	"testing"
	"time"

	"github.com/vtripolitakis/task-executor/pkg/types"
)

func TestCollectorSinkKeepsArrivalOrder(t *testing.T) {
	sink := NewCollectorSink()

	for i := 0; i < 3; i++ {
		sink.OnEvent(types.EventDetails{ScenarioName: "demo", Index: i})
	}

	collected := sink.Events()
	if len(collected) != 3 {
		t.Fatalf("expected 3 events, got %d", len(collected))
	}
	for i, eventDetails := range collected {
		if eventDetails.Index != i {
			t.Errorf("expected index %d at position %d, got %d", i, i, eventDetails.Index)
		}
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	first := NewCollectorSink()
	second := NewCollectorSink()
	sink := NewMultiSink(first, second)

	sink.OnEvent(types.EventDetails{ScenarioName: "demo"})

	if len(first.Events()) != 1 {
		t.Errorf("expected 1 event in the first sink, got %d", len(first.Events()))
	}
	if len(second.Events()) != 1 {
		t.Errorf("expected 1 event in the second sink, got %d", len(second.Events()))
	}
}

func TestRecorderIterationCompleted(t *testing.T) {
	sink := NewCollectorSink()
	recorder := NewRecorder(sink)

	recorder.IterationCompleted("cpu-spin", 2, 10, 500*time.Millisecond, 20*time.Millisecond)

	collected := sink.Events()
	if len(collected) != 1 {
		t.Fatalf("expected 1 event, got %d", len(collected))
	}
	eventDetails := collected[0]
	if eventDetails.Reason != types.IterationCompleted {
		t.Errorf("expected reason %v, got %v", types.IterationCompleted, eventDetails.Reason)
	}
	if eventDetails.ScenarioName != "cpu-spin" {
		t.Errorf("expected scenario cpu-spin, got %v", eventDetails.ScenarioName)
	}
	if eventDetails.Index != 2 || eventDetails.Total != 10 {
		t.Errorf("expected position 2/10, got %d/%d", eventDetails.Index, eventDetails.Total)
	}
	if eventDetails.Delay != 500*time.Millisecond {
		t.Errorf("expected 500ms delay, got %s", eventDetails.Delay)
	}
	if eventDetails.Duration != 20*time.Millisecond {
		t.Errorf("expected 20ms duration, got %s", eventDetails.Duration)
	}
}

func TestRecorderCommandFailed(t *testing.T) {
	sink := NewCollectorSink()
	recorder := NewRecorder(sink)

	recorder.CommandFailed("cpu-spin", 4, 10, time.Millisecond, errors.New("exit status 3"))

	collected := sink.Events()
	if len(collected) != 1 {
		t.Fatalf("expected 1 event, got %d", len(collected))
	}
	if collected[0].Type != "Warning" {
		t.Errorf("expected a Warning event, got %v", collected[0].Type)
	}
	if collected[0].Reason != types.CommandFailed {
		t.Errorf("expected reason %v, got %v", types.CommandFailed, collected[0].Reason)
	}
}

func TestRecorderSummary(t *testing.T) {
	sink := NewCollectorSink()
	recorder := NewRecorder(sink)
	resultDetails := types.ResultDetails{Name: "cpu-spin", Verdict: types.PassVerdict}

	recorder.Summary(&resultDetails)

	collected := sink.Events()
	if len(collected) != 1 {
		t.Fatalf("expected 1 event, got %d", len(collected))
	}
	if collected[0].Message != "cpu-spin scenario has been Passed" {
		t.Errorf("expected the summary message, got %q", collected[0].Message)
	}
}

func TestRecorderSummaryStopped(t *testing.T) {
	sink := NewCollectorSink()
	recorder := NewRecorder(sink)
	resultDetails := types.ResultDetails{Name: "cpu-spin", Verdict: types.StoppedVerdict}

	recorder.Summary(&resultDetails)

	collected := sink.Events()
	if len(collected) != 1 {
		t.Fatalf("expected 1 event, got %d", len(collected))
	}
	if collected[0].Message != "cpu-spin scenario has been aborted" {
		t.Errorf("expected the abort message, got %q", collected[0].Message)
	}
	if collected[0].Type != "Warning" {
		t.Errorf("expected a Warning event, got %q", collected[0].Type)
	}
}

func TestConsoleSinkHandlesEveryReason(t *testing.T) {
	sink := NewConsoleSink()

	sink.OnEvent(types.EventDetails{ScenarioName: "demo", Reason: types.IterationCompleted, Index: 0, Total: 1})
	sink.OnEvent(types.EventDetails{ScenarioName: "demo", Reason: types.CommandFailed, Message: "command failed", Type: "Warning"})
	sink.OnEvent(types.EventDetails{ScenarioName: "demo", Reason: types.Summary, Message: "demo scenario has been Passed", Type: "Normal"})
}
