package simulation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/delay"
	"github.com/vtripolitakis/task-executor/pkg/events"
	"github.com/vtripolitakis/task-executor/pkg/executor"
	"github.com/vtripolitakis/task-executor/pkg/history"
	"github.com/vtripolitakis/task-executor/pkg/result"
	"github.com/vtripolitakis/task-executor/pkg/scenario"
	"github.com/vtripolitakis/task-executor/pkg/types"
	"github.com/vtripolitakis/task-executor/pkg/utils/command"
)

func newSimDetails() *types.SimulationDetails {
	return &types.SimulationDetails{
		RunUID:        "run-1",
		InstanceID:    "abc123",
		ScenariosFile: "scenarios.yaml",
		Shell:         "/bin/sh",
		Seed:          7,
	}
}

func scenarioDetails(name, commandLine string, times int) scenario.Details {
	return scenario.Details{
		Name:    name,
		Kind:    delay.NoDelay,
		Command: commandLine,
		Times:   times,
		Seed:    7,
	}
}

func cmdProbe(name, mode, commandLine, criteria, value string) scenario.ProbeAttributes {
	return scenario.ProbeAttributes{
		Name: name,
		Type: "cmdProbe",
		Mode: mode,
		CmdProbeInputs: scenario.CmdProbeInputs{
			Command: commandLine,
			Comparator: scenario.Comparator{
				Type:     "string",
				Criteria: criteria,
				Value:    value,
			},
		},
		RunProperties: scenario.RunProperty{ProbeTimeout: 5, Retry: 1},
	}
}

func newFixture() (*result.Store, *events.CollectorSink, *events.Recorder, *command.ShellRunner, *executor.Executor) {
	store := result.NewStore()
	sink := events.NewCollectorSink()
	recorder := events.NewRecorder(sink)
	runner := command.NewShellRunner("/bin/sh")
	return store, sink, recorder, runner, executor.New(runner, recorder)
}

func writeScenariosFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unable to write the scenarios file: %v", err)
	}
	return path
}

func TestRunScenarioHappyPath(t *testing.T) {
	store, sink, recorder, runner, runExecutor := newFixture()
	details := scenarioDetails("steady", "true", 2)

	resultDetails := RunScenario(context.Background(), details, newSimDetails(), runExecutor, runner, store, recorder)

	if resultDetails.Verdict != types.PassVerdict {
		t.Errorf("expected verdict %v, got %v", types.PassVerdict, resultDetails.Verdict)
	}
	if resultDetails.Phase != types.PhaseCompleted {
		t.Errorf("expected phase %v, got %v", types.PhaseCompleted, resultDetails.Phase)
	}
	if resultDetails.Succeeded != 2 || resultDetails.Failed != 0 {
		t.Errorf("expected 2 successful iterations, got %d succeeded and %d failed", resultDetails.Succeeded, resultDetails.Failed)
	}

	results := store.Results()
	if len(results) != 1 {
		t.Fatalf("expected 1 stored result, got %d", len(results))
	}
	if results[0].Verdict != types.PassVerdict {
		t.Errorf("expected the stored verdict %v, got %v", types.PassVerdict, results[0].Verdict)
	}

	collected := sink.Events()
	if len(collected) == 0 {
		t.Fatal("expected progress events from the run")
	}
	last := collected[len(collected)-1]
	if last.Reason != types.Summary || last.Message != "steady scenario has been Passed" {
		t.Errorf("expected the summary event, got %v %q", last.Reason, last.Message)
	}
}

func TestRunScenarioCommandFailure(t *testing.T) {
	store, _, recorder, runner, runExecutor := newFixture()
	details := scenarioDetails("flaky", "exit 1", 3)

	resultDetails := RunScenario(context.Background(), details, newSimDetails(), runExecutor, runner, store, recorder)

	if resultDetails.Verdict != types.FailVerdict {
		t.Errorf("expected verdict %v, got %v", types.FailVerdict, resultDetails.Verdict)
	}
	if resultDetails.Phase != types.PhaseAborted {
		t.Errorf("expected phase %v, got %v", types.PhaseAborted, resultDetails.Phase)
	}
	if resultDetails.Failed != 1 || resultDetails.Succeeded != 0 {
		t.Errorf("expected a single failed iteration, got %d succeeded and %d failed", resultDetails.Succeeded, resultDetails.Failed)
	}
	if !strings.Contains(resultDetails.FailStep, "command failed on iteration 1 of 3") {
		t.Errorf("expected the iteration fail step, got %q", resultDetails.FailStep)
	}
	if len(store.Results()) != 1 {
		t.Error("expected the failed scenario result to be stored")
	}
}

func TestRunScenarioPreRunProbeFailure(t *testing.T) {
	store, _, recorder, runner, runExecutor := newFixture()
	details := scenarioDetails("guarded", "true", 1)
	details.Probes = []scenario.ProbeAttributes{cmdProbe("compat", "SOT", "echo ko", "equal", "ok")}

	resultDetails := RunScenario(context.Background(), details, newSimDetails(), runExecutor, runner, store, recorder)

	if resultDetails.Verdict != types.FailVerdict {
		t.Errorf("expected verdict %v, got %v", types.FailVerdict, resultDetails.Verdict)
	}
	if resultDetails.Phase != types.PhaseAborted {
		t.Errorf("expected phase %v, got %v", types.PhaseAborted, resultDetails.Phase)
	}
	if resultDetails.FailStep != result.ProbeExecutionPreRun {
		t.Errorf("expected fail step %q, got %q", result.ProbeExecutionPreRun, resultDetails.FailStep)
	}
	if resultDetails.Succeeded != 0 {
		t.Errorf("expected the command to never run, got %d successful iterations", resultDetails.Succeeded)
	}
}

func TestRunScenarioPostRunProbeFailure(t *testing.T) {
	store, _, recorder, runner, runExecutor := newFixture()
	details := scenarioDetails("checked", "true", 1)
	details.Probes = []scenario.ProbeAttributes{cmdProbe("compat", "EOT", "echo ko", "equal", "ok")}

	resultDetails := RunScenario(context.Background(), details, newSimDetails(), runExecutor, runner, store, recorder)

	if resultDetails.Verdict != types.FailVerdict {
		t.Errorf("expected verdict %v, got %v", types.FailVerdict, resultDetails.Verdict)
	}
	if resultDetails.Phase != types.PhaseCompleted {
		t.Errorf("expected the completed phase to be kept, got %v", resultDetails.Phase)
	}
	if resultDetails.FailStep != result.ProbeExecutionPostRun {
		t.Errorf("expected fail step %q, got %q", result.ProbeExecutionPostRun, resultDetails.FailStep)
	}
	if resultDetails.Succeeded != 1 {
		t.Errorf("expected the command to have run, got %d successful iterations", resultDetails.Succeeded)
	}
}

func TestRunScenarioStoppedBeforeStart(t *testing.T) {
	store, _, recorder, runner, runExecutor := newFixture()
	details := scenarioDetails("skipped", "true", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resultDetails := RunScenario(ctx, details, newSimDetails(), runExecutor, runner, store, recorder)

	if resultDetails.Verdict != types.StoppedVerdict {
		t.Errorf("expected verdict %v, got %v", types.StoppedVerdict, resultDetails.Verdict)
	}
	if resultDetails.Phase != types.PhaseAborted {
		t.Errorf("expected phase %v, got %v", types.PhaseAborted, resultDetails.Phase)
	}
	if resultDetails.FailStep != result.RunInterrupted {
		t.Errorf("expected fail step %q, got %q", result.RunInterrupted, resultDetails.FailStep)
	}

	results := store.Results()
	if len(results) != 1 || results[0].Phase != types.PhaseAborted {
		t.Error("expected the stopped scenario result to be stored with the aborted phase")
	}
}

func TestRunHappyPath(t *testing.T) {
	path := writeScenariosFile(t, `
scenarios:
  - name: smoke
    type: no_delay
    command: "true"
    times: 2
`)
	historyPath := filepath.Join(filepath.Dir(path), "history.db")
	simDetails := newSimDetails()
	simDetails.RunUID = "run-e2e"
	simDetails.ScenariosFile = path
	simDetails.HistoryPath = historyPath

	verdict, err := Run(context.Background(), simDetails)
	if err != nil {
		t.Fatalf("expected the run to succeed, got %v", err)
	}
	if verdict != types.PassVerdict {
		t.Errorf("expected verdict %v, got %v", types.PassVerdict, verdict)
	}

	store, err := history.NewStore(context.Background(), historyPath)
	if err != nil {
		t.Fatalf("unable to reopen the run history: %v", err)
	}
	defer store.Close()
	runs, err := store.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("unable to list the runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].RunID != "run-e2e" || runs[0].Verdict != types.PassVerdict || runs[0].Scenarios != 1 {
		t.Errorf("unexpected recorded run: %+v", runs[0])
	}
}

func TestRunContinuesAfterScenarioFailure(t *testing.T) {
	path := writeScenariosFile(t, `
scenarios:
  - name: breaks
    type: no_delay
    command: "exit 1"
    times: 2
  - name: recovers
    type: no_delay
    command: "true"
    times: 1
`)
	historyPath := filepath.Join(filepath.Dir(path), "history.db")
	simDetails := newSimDetails()
	simDetails.RunUID = "run-mixed"
	simDetails.ScenariosFile = path
	simDetails.HistoryPath = historyPath

	verdict, err := Run(context.Background(), simDetails)
	if err != nil {
		t.Fatalf("expected the run to complete, got %v", err)
	}
	if verdict != types.FailVerdict {
		t.Errorf("expected verdict %v, got %v", types.FailVerdict, verdict)
	}

	store, err := history.NewStore(context.Background(), historyPath)
	if err != nil {
		t.Fatalf("unable to reopen the run history: %v", err)
	}
	defer store.Close()
	records, err := store.RunResults(context.Background(), "run-mixed")
	if err != nil {
		t.Fatalf("unable to read the run results: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected both scenarios to be recorded, got %d", len(records))
	}
	if records[0].Name != "breaks" || records[0].Verdict != types.FailVerdict {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Name != "recovers" || records[1].Verdict != types.PassVerdict {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestRunConfigErrorMissingFile(t *testing.T) {
	simDetails := newSimDetails()
	simDetails.ScenariosFile = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := Run(context.Background(), simDetails); err == nil {
		t.Fatal("expected an error for a missing scenarios file")
	} else if cerrors.GetErrorType(err) != cerrors.ErrorTypeConfiguration {
		t.Errorf("expected a configuration error, got %v", cerrors.GetErrorType(err))
	}
}

func TestRunRejectsUnknownPolicyKind(t *testing.T) {
	path := writeScenariosFile(t, `
scenarios:
  - name: bogus
    type: banana
    command: "true"
    times: 1
`)
	simDetails := newSimDetails()
	simDetails.ScenariosFile = path

	if _, err := Run(context.Background(), simDetails); err == nil {
		t.Fatal("expected an error for an unrecognized policy kind")
	} else if cerrors.GetErrorType(err) != cerrors.ErrorTypeConfiguration {
		t.Errorf("expected a configuration error, got %v", cerrors.GetErrorType(err))
	}
}
