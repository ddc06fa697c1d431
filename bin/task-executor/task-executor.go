package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vtripolitakis/task-executor/pkg/history"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/scenario"
	"github.com/vtripolitakis/task-executor/pkg/simulation"
	"github.com/vtripolitakis/task-executor/pkg/simulation/environment"
	"github.com/vtripolitakis/task-executor/pkg/telemetry"
	"github.com/vtripolitakis/task-executor/pkg/types"
)

// version is stamped by the build
var version = "dev"

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableSorting:         true,
		DisableLevelTruncation: true,
	})
}

func main() {

	var scenariosFile string
	var shell string
	var instanceID string
	var seed int64
	var metricsAddress string
	var otelEndpoint string
	var historyPath string
	var limit int

	var run = &cobra.Command{
		Use:   "run [flags]",
		Short: "Run the scenarios of the given file",
		Long:  "Run the scenarios of the given file sequentially and report the verdict of the whole run",
		Args:  cobra.MaximumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			simDetails := types.SimulationDetails{}

			//Fetching all the ENV passed for the run
			environment.GetENV(&simDetails)

			// the flags take precedence over the environment
			if cmd.Flags().Changed("file") {
				simDetails.ScenariosFile = scenariosFile
			}
			if cmd.Flags().Changed("shell") {
				simDetails.Shell = shell
			}
			if cmd.Flags().Changed("instance-id") {
				simDetails.InstanceID = instanceID
			}
			if cmd.Flags().Changed("seed") {
				simDetails.Seed = seed
			}
			if cmd.Flags().Changed("metrics-addr") {
				simDetails.MetricsAddress = metricsAddress
			}
			if cmd.Flags().Changed("otel-endpoint") {
				simDetails.OTelEndpoint = otelEndpoint
			}
			if cmd.Flags().Changed("history-db") {
				simDetails.HistoryPath = historyPath
			}

			ctx := context.Background()
			if os.Getenv(telemetry.TraceParent) != "" {
				ctx = telemetry.GetTraceParentContext()
			}

			verdict, err := simulation.Run(ctx, &simDetails)
			if err != nil {
				log.Fatalf("Unable to run the scenarios, err: %v", err)
			}
			if verdict != types.PassVerdict {
				os.Exit(1)
			}
		},
	}

	run.Flags().StringVarP(&scenariosFile, "file", "f", "scenarios.yaml", "path of the scenarios file")
	run.Flags().StringVarP(&shell, "shell", "s", "/bin/sh", "shell binary used to execute the scenario commands")
	run.Flags().StringVarP(&instanceID, "instance-id", "i", "", "identifier of this executor instance")
	run.Flags().Int64Var(&seed, "seed", 0, "seed of the delay policies, 0 derives one from the clock")
	run.Flags().StringVar(&metricsAddress, "metrics-addr", "", "listen address of the prometheus metrics endpoint")
	run.Flags().StringVar(&otelEndpoint, "otel-endpoint", "", "endpoint of the otlp trace collector")
	run.Flags().StringVar(&historyPath, "history-db", "", "path of the run history database")

	var validate = &cobra.Command{
		Use:   "validate [flags]",
		Short: "Validate the scenarios file without running it",
		Long:  "Validate the scenarios file without running it, misconfigurations are reported up front",
		Args:  cobra.MaximumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			file, err := scenario.LoadFile(scenariosFile)
			if err != nil {
				log.Fatalf("Unable to load the scenarios file, err: %v", err)
			}
			scenarios, err := scenario.BuildScenarios(file, 1)
			if err != nil {
				log.Fatalf("Invalid scenarios file, err: %v", err)
			}
			for _, details := range scenarios {
				log.InfoWithValues("[Info]: "+details.Name, logrus.Fields{
					"Kind":   string(details.Kind),
					"Times":  details.Times,
					"Probes": len(details.Probes),
				})
			}
			log.Infof("[Info]: The %v file is valid, found %v scenario(s)", scenariosFile, len(scenarios))
		},
	}

	validate.Flags().StringVarP(&scenariosFile, "file", "f", "scenarios.yaml", "path of the scenarios file")

	var historyCmd = &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show the recorded runs of the history database",
		Long:  "Show the recorded runs of the history database, pass a run id for its per scenario results",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store, err := history.NewStore(context.Background(), historyPath)
			if err != nil {
				log.Fatalf("Unable to open the run history, err: %v", err)
			}
			defer store.Close()

			if len(args) == 1 {
				records, err := store.RunResults(context.Background(), args[0])
				if err != nil {
					log.Fatalf("Unable to read the run results, err: %v", err)
				}
				if len(records) == 0 {
					log.Infof("[Info]: No results recorded for the %v run", args[0])
					return
				}
				for _, record := range records {
					log.InfoWithValues("[Info]: "+record.Name, logrus.Fields{
						"Verdict":     record.Verdict,
						"Phase":       record.Phase,
						"Succeeded":   record.Succeeded,
						"Failed":      record.Failed,
						"Delays":      record.Delays,
						"Total Delay": record.TotalDelay,
						"Runtime":     record.Runtime,
						"Fail Step":   record.FailStep,
					})
				}
				return
			}

			runs, err := store.ListRuns(context.Background(), limit)
			if err != nil {
				log.Fatalf("Unable to list the runs, err: %v", err)
			}
			if len(runs) == 0 {
				log.Info("[Info]: No runs recorded yet")
				return
			}
			for _, run := range runs {
				log.InfoWithValues("[Info]: "+run.RunID, logrus.Fields{
					"Started":   run.StartedAt,
					"Verdict":   run.Verdict,
					"Scenarios": run.Scenarios,
					"Runtime":   run.Runtime,
					"Seed":      run.Seed,
					"File":      run.ScenariosFile,
				})
			}
		},
	}

	historyCmd.Flags().StringVar(&historyPath, "history-db", "history.db", "path of the run history database")
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.MaximumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("task-executor %v\n", version)
		},
	}

	var rootCmd = &cobra.Command{Use: "task-executor"}
	rootCmd.AddCommand(run, validate, historyCmd, versionCmd)
	rootCmd.Execute()
}
