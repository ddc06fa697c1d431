package result

const (
	ResultUpdatePreRun    = "[pre-run]: failed to create/update the scenario result"
	ProbeExecutionPreRun  = "[pre-run]: failed in probe execution"
	RunInterrupted        = "[execution]: interrupted before the scenario could run"
	ProbeExecutionPostRun = "[post-run]: failed in probe execution"
	HistoryUpdate         = "[summary]: failed to persist the run history"
)
