package events

import (
	"fmt"
	"time"

	"github.com/vtripolitakis/task-executor/pkg/types"
)

// Recorder posts the standard progress events of a scenario run
type Recorder struct {
	Sink Sink
}

// NewRecorder initalizes a Recorder emitting into the given sink
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{Sink: sink}
}

// ScenarioStarted is an standard event spawned when the scenario loop begins
func (r *Recorder) ScenarioStarted(resultDetails *types.ResultDetails, total int) {
	eventDetails := types.EventDetails{Total: total}
	types.SetEventAttributes(&eventDetails, types.ScenarioStarted, fmt.Sprintf("%v scenario has been Awaited", resultDetails.Name), "Normal", resultDetails)
	r.Sink.OnEvent(eventDetails)
}

// IterationCompleted is the per-iteration progress notification, delay carries
// the pause that follows the iteration, zero after the final one
func (r *Recorder) IterationCompleted(scenarioName string, index, total int, delay, duration time.Duration) {
	r.Sink.OnEvent(types.EventDetails{
		ScenarioName: scenarioName,
		Index:        index,
		Total:        total,
		Delay:        delay,
		Duration:     duration,
		Reason:       types.IterationCompleted,
		Message:      "command completed",
		Type:         "Normal",
	})
}

// CommandFailed is an standard event spawned when a command exits non zero
func (r *Recorder) CommandFailed(scenarioName string, index, total int, duration time.Duration, err error) {
	r.Sink.OnEvent(types.EventDetails{
		ScenarioName: scenarioName,
		Index:        index,
		Total:        total,
		Duration:     duration,
		Reason:       types.CommandFailed,
		Message:      fmt.Sprintf("command failed, err: %v", err),
		Type:         "Warning",
	})
}

// Summary is an standard event spawned in the end of the scenario
func (r *Recorder) Summary(resultDetails *types.ResultDetails) {
	message := fmt.Sprintf("%v scenario has been %ved", resultDetails.Name, resultDetails.Verdict)
	eventType := "Normal"
	if resultDetails.Verdict == types.StoppedVerdict {
		message = fmt.Sprintf("%v scenario has been aborted", resultDetails.Name)
		eventType = "Warning"
	}

	eventDetails := types.EventDetails{}
	types.SetEventAttributes(&eventDetails, types.Summary, message, eventType, resultDetails)
	r.Sink.OnEvent(eventDetails)
}
