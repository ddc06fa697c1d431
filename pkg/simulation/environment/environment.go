package environment

import (
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/vtripolitakis/task-executor/pkg/types"
	"github.com/vtripolitakis/task-executor/pkg/utils/stringutils"
)

//GetENV fetches all the env variables of the run
func GetENV(simDetails *types.SimulationDetails) {
	simDetails.RunUID = uuid.New().String()
	simDetails.InstanceID = Getenv("INSTANCE_ID", stringutils.GetRunID())
	simDetails.ScenariosFile = Getenv("SCENARIOS_FILE", "scenarios.yaml")
	simDetails.Shell = Getenv("COMMAND_SHELL", "/bin/sh")
	simDetails.Seed, _ = strconv.ParseInt(Getenv("RANDOM_SEED", "0"), 10, 64)
	simDetails.MetricsAddress = Getenv("METRICS_LISTEN_ADDRESS", "")
	simDetails.OTelEndpoint = Getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	simDetails.HistoryPath = Getenv("HISTORY_DATABASE", "")
}

// Getenv fetch the env and set the default value, if any
func Getenv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return value
}
