package result

import (
	"fmt"
	"sync"
	"time"

	"github.com/kyokomi/emoji"
	"github.com/sirupsen/logrus"
	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/types"
)

const (
	// SOT marks the start of test update, it seeds the result before the scenario runs
	SOT = "SOT"
	// EOT marks the end of test update, it patches the result with the final verdict
	EOT = "EOT"
)

// Sink receives the scenario result at the start and at the end of every scenario
type Sink interface {
	ScenarioResult(simDetails *types.SimulationDetails, resultDetails *types.ResultDetails, state string) error
}

// Store collects the scenario results of a run in memory, keyed by scenario name.
// It keeps first-seen order so the summary renders in execution order.
type Store struct {
	mu      sync.Mutex
	order   []string
	results map[string]types.ResultDetails
}

// NewStore returns an empty result store
func NewStore() *Store {
	return &Store{results: map[string]types.ResultDetails{}}
}

// ScenarioResult create or update the scenario result
func (s *Store) ScenarioResult(simDetails *types.SimulationDetails, resultDetails *types.ResultDetails, state string) error {
	if resultDetails.Name == "" {
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Phase: types.Summary, Reason: "scenario result without a name"}
	}

	if resultDetails.RunID == "" {
		resultDetails.RunID = simDetails.RunUID
	}
	if state == EOT && resultDetails.Phase == types.PhaseRunning {
		resultDetails.Phase = types.PhaseCompleted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[resultDetails.Name]; !ok {
		s.order = append(s.order, resultDetails.Name)
	}
	s.results[resultDetails.Name] = *resultDetails
	return nil
}

// Results returns the stored results in first-seen order
func (s *Store) Results() []types.ResultDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]types.ResultDetails, 0, len(s.order))
	for _, name := range s.order {
		results = append(results, s.results[name])
	}
	return results
}

// RunVerdict reduces the scenario verdicts into the verdict of the whole run.
// A single failed scenario fails the run, an interrupted run is Stopped.
func RunVerdict(results []types.ResultDetails) string {
	verdict := types.PassVerdict
	for _, result := range results {
		switch result.Verdict {
		case types.FailVerdict:
			return types.FailVerdict
		case types.StoppedVerdict, types.AwaitedVerdict:
			verdict = types.StoppedVerdict
		}
	}
	return verdict
}

// Summary logs the per-scenario verdicts followed by the totals of the run
func Summary(results []types.ResultDetails, runtime time.Duration) {
	passed, failed, stopped := 0, 0, 0
	commands := 0
	slept := time.Duration(0)
	for _, result := range results {
		commands += result.Succeeded + result.Failed
		slept += result.TotalDelay
		mark := emoji.Sprint(":thumbsup:")
		switch result.Verdict {
		case types.PassVerdict:
			passed++
		case types.FailVerdict:
			failed++
			mark = emoji.Sprint(":thumbsdown:")
		default:
			stopped++
			mark = emoji.Sprint(":thumbsdown:")
		}

		log.InfoWithValues("[Summary]: The "+result.Name+" scenario verdict is "+result.Verdict+" "+mark, logrus.Fields{
			"Kind":        result.Kind,
			"Phase":       result.Phase,
			"Succeeded":   result.Succeeded,
			"Failed":      result.Failed,
			"Delays":      result.Delays,
			"Total Delay": result.TotalDelay.Round(time.Millisecond).String(),
			"Runtime":     result.Runtime.Round(time.Millisecond).String(),
			"Probes":      fmt.Sprintf("%d/%d passed", result.PassedProbeCount, len(result.ProbeDetails)),
			"Fail Step":   result.FailStep,
		})
	}

	log.InfoWithValues("[The End]: The run has been completed", logrus.Fields{
		"Scenarios":   len(results),
		"Passed":      passed,
		"Failed":      failed,
		"Stopped":     stopped,
		"Commands":    commands,
		"Total Delay": slept.Round(time.Millisecond).String(),
		"Runtime":     runtime.Round(time.Millisecond).String(),
	})
}
