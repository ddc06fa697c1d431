package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/delay"
	"github.com/vtripolitakis/task-executor/pkg/events"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/scenario"
	"github.com/vtripolitakis/task-executor/pkg/types"
	"github.com/vtripolitakis/task-executor/pkg/utils/command"
	"github.com/vtripolitakis/task-executor/pkg/utils/stringutils"
)

// Runner executes one command line and reports its outcome
type Runner interface {
	Run(ctx context.Context, commandLine string) command.Outcome
}

// Executor drives the iteration loop of a single scenario
type Executor struct {
	runner   Runner
	recorder *events.Recorder
}

//New initialise the executor with its runner and progress recorder
func New(runner Runner, recorder *events.Recorder) *Executor {
	if recorder == nil {
		recorder = events.NewRecorder(events.NewConsoleSink())
	}
	return &Executor{runner: runner, recorder: recorder}
}

//RunScenario runs the command of the given scenario times times, pausing
//between iterations as the delay policy dictates. The first command failure
//aborts the scenario, cancellation stops it at the next boundary.
func (e *Executor) RunScenario(ctx context.Context, details scenario.Details, resultDetails *types.ResultDetails) error {
	policy, err := delay.New(details.Kind, details.Times, details.Params, details.Seed)
	if err != nil {
		return err
	}

	log.InfoWithValues(fmt.Sprintf("[Run]: Running scenario: %v [%v]", details.Name, details.Kind), logrus.Fields{
		"Times":   details.Times,
		"Command": stringutils.Truncate(details.Command, 48),
	})

	resultDetails.Phase = types.PhaseRunning
	e.recorder.ScenarioStarted(resultDetails, details.Times)

	started := time.Now()
	defer func() {
		resultDetails.Runtime = time.Since(started)
	}()

	for i := 0; i < details.Times; i++ {
		if ctx.Err() != nil {
			return e.stop(details.Name, resultDetails, fmt.Sprintf("interrupted before iteration %v", i+1))
		}

		outcome := e.runner.Run(ctx, details.Command)
		if !outcome.Succeeded() {
			if cerrors.GetErrorType(outcome.Err) == cerrors.ErrorTypeSimulationAborted {
				return e.stop(details.Name, resultDetails, fmt.Sprintf("command interrupted on iteration %v", i+1))
			}
			e.recorder.CommandFailed(details.Name, i, details.Times, outcome.Duration, outcome.Err)
			resultDetails.Failed = 1
			types.SetResultAfterCompletion(resultDetails, types.FailVerdict, types.PhaseAborted, fmt.Sprintf("[execution]: command failed on iteration %v of %v", i+1, details.Times))
			return outcome.Err
		}
		resultDetails.Succeeded++

		// no pause follows the final iteration
		var pause time.Duration
		if i < details.Times-1 {
			pause = policy.NextDelay(i)
		}

		e.recorder.IterationCompleted(details.Name, i, details.Times, pause, outcome.Duration)

		if pause > 0 {
			resultDetails.Delays++
			slept, err := waitForDelay(ctx, pause)
			resultDetails.TotalDelay += slept
			if err != nil {
				return e.stop(details.Name, resultDetails, fmt.Sprintf("interrupted while pausing after iteration %v", i+1))
			}
		}
	}

	types.SetResultAfterCompletion(resultDetails, types.PassVerdict, types.PhaseCompleted, "N/A")
	return nil
}

func (e *Executor) stop(scenarioName string, resultDetails *types.ResultDetails, reason string) error {
	log.Infof("[Abort]: Scenario %v stopped, %v", scenarioName, reason)
	types.SetResultAfterCompletion(resultDetails, types.StoppedVerdict, types.PhaseAborted, "[execution]: "+reason)
	return cerrors.Error{ErrorCode: cerrors.ErrorTypeSimulationAborted, Phase: types.Execution, Scenario: scenarioName, Reason: "the run was interrupted"}
}

// waitForDelay suspends for the given pause, waking up early on cancellation.
// It reports the time actually slept.
func waitForDelay(ctx context.Context, pause time.Duration) (time.Duration, error) {
	started := time.Now()
	endTime := time.After(pause)
	select {
	case <-ctx.Done():
		return time.Since(started), cerrors.Error{ErrorCode: cerrors.ErrorTypeSimulationAborted, Phase: types.Execution, Reason: "the pause was interrupted"}
	case <-endTime:
		return pause, nil
	}
}
