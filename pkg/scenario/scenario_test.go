package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/delay"
)

const sampleFile = `
scenarios:
  - name: warmup
    type: no_delay
    command: "echo warmup"
    times: 3
  - name: spiky
    type: random_block_size_random_delay
    command: "echo spike"
    times: 10
    max_delay: 2.5
    max_block_size: 4
    probes:
      - name: check-marker
        type: cmdProbe
        mode: EOT
        cmdProbe/inputs:
          command: "echo ok"
          comparator:
            type: string
            criteria: equal
            value: ok
        runProperties:
          probeTimeout: 2
          interval: 1
          retry: 2
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unable to write the scenarios file, err: %v", err)
	}
	return path
}

func TestLoadFileParsesDocument(t *testing.T) {
	file, err := LoadFile(writeFile(t, sampleFile))
	if err != nil {
		t.Fatalf("expected the file to load, got err: %v", err)
	}

	if len(file.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(file.Scenarios))
	}

	first := file.Scenarios[0]
	if first.Name != "warmup" || first.Type != "no_delay" || first.Times != 3 {
		t.Errorf("unexpected first scenario: %+v", first)
	}

	second := file.Scenarios[1]
	if second.MaxDelay != 2.5 || second.MaxBlockSize != 4 {
		t.Errorf("unexpected second scenario: %+v", second)
	}
	if len(second.Probes) != 1 {
		t.Fatalf("expected 1 probe, got %d", len(second.Probes))
	}
	probe := second.Probes[0]
	if probe.Type != "cmdProbe" || probe.Mode != "EOT" {
		t.Errorf("unexpected probe: %+v", probe)
	}
	if probe.CmdProbeInputs.Comparator.Criteria != "equal" || probe.CmdProbeInputs.Comparator.Value != "ok" {
		t.Errorf("unexpected comparator: %+v", probe.CmdProbeInputs.Comparator)
	}
	if probe.RunProperties.Retry != 2 {
		t.Errorf("expected 2 retries, got %d", probe.RunProperties.Retry)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nowhere.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file, got nil")
	}
	if errorType := cerrors.GetErrorType(err); errorType != cerrors.ErrorTypeConfiguration {
		t.Errorf("expected %s, got %s", cerrors.ErrorTypeConfiguration, errorType)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	_, err := LoadFile(writeFile(t, "scenarios:\n  - name: [broken"))
	if err == nil {
		t.Fatal("expected an error for a malformed file, got nil")
	}
	if errorType := cerrors.GetErrorType(err); errorType != cerrors.ErrorTypeConfiguration {
		t.Errorf("expected %s, got %s", cerrors.ErrorTypeConfiguration, errorType)
	}
}

func TestBuildScenariosSeedsByPosition(t *testing.T) {
	file, err := LoadFile(writeFile(t, sampleFile))
	if err != nil {
		t.Fatalf("expected the file to load, got err: %v", err)
	}

	scenarios, err := BuildScenarios(file, 10)
	if err != nil {
		t.Fatalf("expected the scenarios to build, got err: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(scenarios))
	}
	if scenarios[0].Seed != 10 || scenarios[1].Seed != 11 {
		t.Errorf("expected seeds 10 and 11, got %d and %d", scenarios[0].Seed, scenarios[1].Seed)
	}
	if scenarios[0].Kind != delay.NoDelay {
		t.Errorf("expected kind %v, got %v", delay.NoDelay, scenarios[0].Kind)
	}
	if scenarios[1].Params.MaxBlockSize != 4 {
		t.Errorf("expected max block size 4, got %d", scenarios[1].Params.MaxBlockSize)
	}
}

func TestBuildScenariosRejectsUnknownKind(t *testing.T) {
	file := &File{Scenarios: []Spec{{Name: "bogus", Type: "jitter", Command: "echo hi", Times: 2}}}

	_, err := BuildScenarios(file, 0)
	if err == nil {
		t.Fatal("expected an error for an unknown delay kind, got nil")
	}
	if errorType := cerrors.GetErrorType(err); errorType != cerrors.ErrorTypeConfiguration {
		t.Errorf("expected %s, got %s", cerrors.ErrorTypeConfiguration, errorType)
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("expected the scenario name in the error, got %v", err)
	}
}

func TestBuildScenariosRejectsEmptyCommand(t *testing.T) {
	file := &File{Scenarios: []Spec{{Name: "silent", Type: "no_delay", Times: 2}}}

	if _, err := BuildScenarios(file, 0); err == nil {
		t.Fatal("expected an error for a missing command, got nil")
	}
}

func TestBuildScenariosDefaultsName(t *testing.T) {
	file := &File{Scenarios: []Spec{{Type: "no_delay", Command: "echo hi", Times: 1}}}

	scenarios, err := BuildScenarios(file, 0)
	if err != nil {
		t.Fatalf("expected the scenarios to build, got err: %v", err)
	}
	if scenarios[0].Name != "scenario-1" {
		t.Errorf("expected the positional name scenario-1, got %v", scenarios[0].Name)
	}
}

func TestBuildScenariosValidatesProbes(t *testing.T) {
	base := Spec{Name: "probed", Type: "no_delay", Command: "echo hi", Times: 1}

	tests := []struct {
		name   string
		probes []ProbeAttributes
	}{
		{
			name:   "unknown probe type",
			probes: []ProbeAttributes{{Name: "p", Type: "k8sProbe", Mode: "SOT"}},
		},
		{
			name:   "unknown probe mode",
			probes: []ProbeAttributes{{Name: "p", Type: "cmdProbe", Mode: "Continuous", CmdProbeInputs: CmdProbeInputs{Command: "echo", Comparator: Comparator{Type: "string", Criteria: "equal"}}}},
		},
		{
			name:   "missing probe name",
			probes: []ProbeAttributes{{Type: "cmdProbe", Mode: "SOT", CmdProbeInputs: CmdProbeInputs{Command: "echo", Comparator: Comparator{Type: "string", Criteria: "equal"}}}},
		},
		{
			name: "duplicate probe names",
			probes: []ProbeAttributes{
				{Name: "p", Type: "cmdProbe", Mode: "SOT", CmdProbeInputs: CmdProbeInputs{Command: "echo", Comparator: Comparator{Type: "string", Criteria: "equal"}}},
				{Name: "p", Type: "cmdProbe", Mode: "EOT", CmdProbeInputs: CmdProbeInputs{Command: "echo", Comparator: Comparator{Type: "string", Criteria: "equal"}}},
			},
		},
		{
			name:   "missing cmd probe command",
			probes: []ProbeAttributes{{Name: "p", Type: "cmdProbe", Mode: "SOT", CmdProbeInputs: CmdProbeInputs{Comparator: Comparator{Type: "string", Criteria: "equal"}}}},
		},
		{
			name:   "unknown comparator type",
			probes: []ProbeAttributes{{Name: "p", Type: "cmdProbe", Mode: "SOT", CmdProbeInputs: CmdProbeInputs{Command: "echo", Comparator: Comparator{Type: "bool", Criteria: "equal"}}}},
		},
		{
			name:   "missing http url",
			probes: []ProbeAttributes{{Name: "p", Type: "httpProbe", Mode: "SOT", HTTPProbeInputs: HTTPProbeInputs{Method: HTTPMethod{Get: &GetMethod{Criteria: "==", ResponseCode: "200"}}}}},
		},
		{
			name:   "http probe without a method",
			probes: []ProbeAttributes{{Name: "p", Type: "httpProbe", Mode: "SOT", HTTPProbeInputs: HTTPProbeInputs{URL: "http://localhost:8080"}}},
		},
		{
			name: "http probe with both methods",
			probes: []ProbeAttributes{{Name: "p", Type: "httpProbe", Mode: "SOT", HTTPProbeInputs: HTTPProbeInputs{
				URL:    "http://localhost:8080",
				Method: HTTPMethod{Get: &GetMethod{Criteria: "==", ResponseCode: "200"}, Post: &PostMethod{Criteria: "==", ResponseCode: "200"}},
			}}},
		},
		{
			name: "negative retry",
			probes: []ProbeAttributes{{Name: "p", Type: "cmdProbe", Mode: "SOT",
				CmdProbeInputs: CmdProbeInputs{Command: "echo", Comparator: Comparator{Type: "string", Criteria: "equal"}},
				RunProperties:  RunProperty{Retry: -1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := base
			spec.Probes = tt.probes
			_, err := BuildScenarios(&File{Scenarios: []Spec{spec}}, 0)
			if err == nil {
				t.Fatal("expected a configuration error, got nil")
			}
			if errorType := cerrors.GetErrorType(err); errorType != cerrors.ErrorTypeConfiguration {
				t.Errorf("expected %s, got %s", cerrors.ErrorTypeConfiguration, errorType)
			}
		})
	}
}

func TestBuildScenariosProbeDefaults(t *testing.T) {
	file := &File{Scenarios: []Spec{{
		Name: "probed", Type: "no_delay", Command: "echo hi", Times: 1,
		Probes: []ProbeAttributes{{
			Name: "p", Type: "cmdProbe", Mode: "SOT",
			CmdProbeInputs: CmdProbeInputs{Command: "echo ok", Comparator: Comparator{Type: "string", Criteria: "equal", Value: "ok"}},
		}},
	}}}

	scenarios, err := BuildScenarios(file, 0)
	if err != nil {
		t.Fatalf("expected the scenarios to build, got err: %v", err)
	}

	probe := scenarios[0].Probes[0]
	if probe.RunProperties.Retry != 1 {
		t.Errorf("expected the retry default 1, got %d", probe.RunProperties.Retry)
	}
	if probe.RunProperties.ProbeTimeout != 5 {
		t.Errorf("expected the timeout default 5, got %d", probe.RunProperties.ProbeTimeout)
	}
}
