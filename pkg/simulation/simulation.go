package simulation

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/events"
	"github.com/vtripolitakis/task-executor/pkg/executor"
	"github.com/vtripolitakis/task-executor/pkg/history"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/probe"
	"github.com/vtripolitakis/task-executor/pkg/result"
	"github.com/vtripolitakis/task-executor/pkg/scenario"
	"github.com/vtripolitakis/task-executor/pkg/telemetry"
	"github.com/vtripolitakis/task-executor/pkg/types"
	"github.com/vtripolitakis/task-executor/pkg/utils/command"
)

// Run executes every scenario of the configured file sequentially and returns
// the overall run verdict. Configuration problems surface as an error before
// any scenario runs, everything later is captured in the scenario results.
func Run(ctx context.Context, simDetails *types.SimulationDetails) (string, error) {

	startedAt := time.Now()

	if simDetails.Seed == 0 {
		simDetails.Seed = time.Now().UnixNano()
		log.Infof("[PreReq]: No seed provided, derived %v from the clock", simDetails.Seed)
	}

	//Loading and validating all the scenarios before anything runs
	log.Infof("[PreReq]: Loading the scenarios from %v", simDetails.ScenariosFile)
	file, err := scenario.LoadFile(simDetails.ScenariosFile)
	if err != nil {
		return "", err
	}
	scenarios, err := scenario.BuildScenarios(file, simDetails.Seed)
	if err != nil {
		return "", err
	}

	shutdown, err := telemetry.InitOTelSDK(ctx, simDetails.OTelEndpoint)
	if err != nil {
		log.Errorf("Unable to initialise the otel sdk, err: %v", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Errorf("Unable to shutdown the otel sdk, err: %v", err)
			}
		}()
	}

	sinks := []events.Sink{events.NewConsoleSink()}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		log.Errorf("Unable to register the run metrics, err: %v", err)
	} else {
		sinks = append(sinks, metrics)
	}
	recorder := events.NewRecorder(events.NewMultiSink(sinks...))

	if simDetails.MetricsAddress != "" {
		metricsServer := telemetry.ServeMetrics(simDetails.MetricsAddress)
		defer metricsServer.Shutdown(context.Background())
	}

	var historyStore *history.Store
	if simDetails.HistoryPath != "" {
		historyStore, err = history.NewStore(ctx, simDetails.HistoryPath)
		if err != nil {
			log.Errorf("Unable to open the run history, err: %v", err)
			historyStore = nil
		} else {
			defer historyStore.Close()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// signChan channel is used to transmit signal notifications.
	signChan := make(chan os.Signal, 1)
	// Catch and relay certain signal(s) to signChan channel.
	signal.Notify(signChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signChan)
	go func() {
		<-signChan
		log.Info("[Abort]: Abort signal received, stopping at the next safe point")
		cancel()
		<-signChan
		log.Info("[Abort]: Second abort signal received, exiting immediately")
		os.Exit(1)
	}()

	ctx, span := telemetry.StartTracing(ctx, "run_scenarios")
	defer span.End()
	if simDetails.OTelEndpoint != "" {
		os.Setenv(telemetry.TraceParent, telemetry.GetMarshalledSpanFromContext(ctx))
	}

	log.InfoWithValues("[Info]: The run details are as follows", logrus.Fields{
		"Scenarios":   len(scenarios),
		"Run ID":      simDetails.RunUID,
		"Instance ID": simDetails.InstanceID,
		"Seed":        simDetails.Seed,
		"Shell":       simDetails.Shell,
	})

	store := result.NewStore()
	runner := command.NewShellRunner(simDetails.Shell)
	runExecutor := executor.New(runner, recorder)

	for _, details := range scenarios {
		RunScenario(ctx, details, simDetails, runExecutor, runner, store, recorder)
	}

	results := store.Results()
	runtime := time.Since(startedAt)
	result.Summary(results, runtime)
	verdict := result.RunVerdict(results)

	if historyStore != nil {
		run := history.Run{
			RunID:         simDetails.RunUID,
			InstanceID:    simDetails.InstanceID,
			ScenariosFile: simDetails.ScenariosFile,
			Seed:          simDetails.Seed,
			Verdict:       verdict,
			Scenarios:     len(results),
			Runtime:       runtime,
			StartedAt:     startedAt,
		}
		// the history write survives an aborted run context
		if err := historyStore.SaveRun(context.Background(), run, results); err != nil {
			log.Errorf("%v, err: %v", result.HistoryUpdate, err)
		}
	}

	return verdict, nil
}

// RunScenario drives one scenario end to end, the result is recorded in the
// store whatever happens so the run summary accounts for every scenario.
func RunScenario(ctx context.Context, details scenario.Details, simDetails *types.SimulationDetails, runExecutor *executor.Executor, runner probe.Runner, store *result.Store, recorder *events.Recorder) types.ResultDetails {

	resultDetails := types.ResultDetails{}
	types.SetResultAttributes(&resultDetails, details.Name, string(details.Kind))
	probe.SetProbesInResult(details.Probes, &resultDetails)

	finish := func() {
		log.Infof("[The End]: Updating the scenario result of %v scenario (EOT)", details.Name)
		if err := store.ScenarioResult(simDetails, &resultDetails, result.EOT); err != nil {
			log.Errorf("Unable to update the scenario result, err: %v", err)
		}
		recorder.Summary(&resultDetails)
	}

	if ctx.Err() != nil {
		types.SetResultAfterCompletion(&resultDetails, types.StoppedVerdict, types.PhaseAborted, result.RunInterrupted)
		finish()
		return resultDetails
	}

	ctx, span := telemetry.StartTracing(ctx, details.Name)
	span.SetAttributes(
		attribute.String("scenario.kind", string(details.Kind)),
		attribute.Int("scenario.times", details.Times),
	)
	defer func() {
		span.SetAttributes(attribute.String("scenario.verdict", resultDetails.Verdict))
		span.End()
	}()

	//Updating the scenario result in the beginning of the scenario
	log.Infof("[PreReq]: Updating the scenario result of %v scenario (SOT)", details.Name)
	if err := store.ScenarioResult(simDetails, &resultDetails, result.SOT); err != nil {
		log.Errorf("Unable to create the scenario result, err: %v", err)
		types.SetResultAfterCompletion(&resultDetails, types.FailVerdict, types.PhaseAborted, result.ResultUpdatePreRun)
		finish()
		return resultDetails
	}

	// run the probes in the pre-run check
	if len(details.Probes) != 0 {
		log.Info("[Status]: Running the probes of the scenario (pre-run)")
		if err := probe.RunProbes(ctx, details, runner, &resultDetails, types.PreRunCheck); err != nil {
			log.Errorf("Probes failed, err: %v", err)
			verdict := types.FailVerdict
			if cerrors.GetErrorType(err) == cerrors.ErrorTypeSimulationAborted {
				verdict = types.StoppedVerdict
			}
			types.SetResultAfterCompletion(&resultDetails, verdict, types.PhaseAborted, result.ProbeExecutionPreRun)
			finish()
			return resultDetails
		}
	}

	if err := runExecutor.RunScenario(ctx, details, &resultDetails); err != nil {
		log.Errorf("Scenario execution failed, err: %v", err)
		if resultDetails.Verdict == types.AwaitedVerdict {
			types.SetResultAfterCompletion(&resultDetails, types.FailVerdict, types.PhaseAborted, err.Error())
		}
		finish()
		return resultDetails
	}
	log.Infof("[Confirmation]: The %v scenario has been executed successfully", details.Name)

	// run the probes in the post-run check
	if len(details.Probes) != 0 {
		log.Info("[Status]: Running the probes of the scenario (post-run)")
		if err := probe.RunProbes(ctx, details, runner, &resultDetails, types.PostRunCheck); err != nil {
			log.Errorf("Probes failed, err: %v", err)
			verdict := types.FailVerdict
			if cerrors.GetErrorType(err) == cerrors.ErrorTypeSimulationAborted {
				verdict = types.StoppedVerdict
			}
			types.SetResultAfterCompletion(&resultDetails, verdict, resultDetails.Phase, result.ProbeExecutionPostRun)
			finish()
			return resultDetails
		}
	}

	finish()
	return resultDetails
}
