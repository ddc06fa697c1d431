package types

import (
	"time"
)

const (
	// PreRunCheck initial stage of a scenario, probe checks before any command runs
	PreRunCheck string = "PreRunCheck"
	// PostRunCheck pre-final stage of a scenario, probe checks after the last command
	PostRunCheck string = "PostRunCheck"
	// Execution this stage refers to the main command loop
	Execution string = "Execution"
	// Summary final stage of the run, update and render the verdicts
	Summary string = "Summary"

	// ScenarioStarted event reason posted when a scenario loop begins
	ScenarioStarted string = "ScenarioStarted"
	// IterationCompleted event reason posted after every command in the loop
	IterationCompleted string = "IterationCompleted"
	// CommandFailed event reason posted when a command exits non zero
	CommandFailed string = "CommandFailed"

	// AwaitedVerdict marked the start of the scenario
	AwaitedVerdict string = "Awaited"
	// PassVerdict marked the verdict as passed in the end of the scenario
	PassVerdict string = "Pass"
	// FailVerdict marked the verdict as failed in the end of the scenario
	FailVerdict string = "Fail"
	// StoppedVerdict marked the verdict as stopped when the run was aborted
	StoppedVerdict string = "Stopped"
)

const (
	// PhaseIdle scenario is constructed but not started
	PhaseIdle string = "Idle"
	// PhaseRunning scenario loop is in flight
	PhaseRunning string = "Running"
	// PhaseCompleted every iteration ran to the end
	PhaseCompleted string = "Completed"
	// PhaseAborted the loop stopped early, on command failure or interruption
	PhaseAborted string = "Aborted"
)

// ResultDetails is for collecting all the scenario-result-related details
type ResultDetails struct {
	Name             string
	Kind             string
	Verdict          string
	FailStep         string
	Phase            string
	RunID            string
	Succeeded        int
	Failed           int
	Delays           int
	TotalDelay       time.Duration
	Runtime          time.Duration
	ProbeDetails     []ProbeDetails
	PassedProbeCount int
	ProbeArtifacts   map[string]ProbeArtifact
}

// ProbeArtifact contains the probe artifacts
type ProbeArtifact struct {
	ProbeArtifacts RegisterDetails
}

// RegisterDetails contains the output of the corresponding probe
type RegisterDetails struct {
	Register string
}

// ProbeDetails is for collecting all the probe details
type ProbeDetails struct {
	Name                   string
	Type                   string
	Mode                   string
	Status                 map[string]string
	IsProbeFailedWithError error
	RunCount               int
}

// EventDetails is for collecting all the progress-event-related details
type EventDetails struct {
	ScenarioName string
	Index        int
	Total        int
	Delay        time.Duration
	Duration     time.Duration
	Reason       string
	Message      string
	Type         string
}

// SimulationDetails is for collecting all the global variables
type SimulationDetails struct {
	RunUID         string
	InstanceID     string
	ScenariosFile  string
	Shell          string
	Seed           int64
	MetricsAddress string
	OTelEndpoint   string
	HistoryPath    string
}

//SetResultAttributes initialise all the scenario result fields before execution
func SetResultAttributes(resultDetails *ResultDetails, name, kind string) {
	resultDetails.Name = name
	resultDetails.Kind = kind
	resultDetails.Verdict = AwaitedVerdict
	resultDetails.Phase = PhaseIdle
	resultDetails.FailStep = "N/A"
	resultDetails.Succeeded = 0
	resultDetails.Failed = 0
	resultDetails.Delays = 0
	resultDetails.TotalDelay = 0
	resultDetails.PassedProbeCount = 0
	resultDetails.ProbeArtifacts = map[string]ProbeArtifact{}
}

//SetResultAfterCompletion set all the scenario result fields in the EOT
func SetResultAfterCompletion(resultDetails *ResultDetails, verdict, phase, failStep string) {
	resultDetails.Verdict = verdict
	resultDetails.Phase = phase
	resultDetails.FailStep = failStep
}

//SetEventAttributes initialise attributes for the progress event stream
func SetEventAttributes(eventsDetails *EventDetails, Reason, Message, Type string, resultDetails *ResultDetails) {
	eventsDetails.Reason = Reason
	eventsDetails.Message = Message
	eventsDetails.Type = Type
	eventsDetails.ScenarioName = resultDetails.Name
}
