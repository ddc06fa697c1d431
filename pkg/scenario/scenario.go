package scenario

import (
	"fmt"
	"os"
	"strings"

	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/delay"
	yaml "gopkg.in/yaml.v2"
)

const (
	defaultProbeTimeout = 5
	defaultProbeRetry   = 1
)

//LoadFile reads and decodes the scenarios file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.Error{ErrorCode: cerrors.ErrorTypeConfiguration, Reason: fmt.Sprintf("unable to read the scenarios file %v, err: %v", path, err)}
	}
	file := File{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, cerrors.Error{ErrorCode: cerrors.ErrorTypeConfiguration, Reason: fmt.Sprintf("unable to decode the scenarios file %v, err: %v", path, err)}
	}
	return &file, nil
}

//BuildScenarios validates every raw entry up front and derives the executable
//scenarios, no scenario runs before the whole file has passed
func BuildScenarios(file *File, seed int64) ([]Details, error) {
	scenarios := make([]Details, 0, len(file.Scenarios))
	for idx, spec := range file.Scenarios {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			name = fmt.Sprintf("scenario-%d", idx+1)
		}
		if strings.TrimSpace(spec.Command) == "" {
			return nil, cerrors.Error{ErrorCode: cerrors.ErrorTypeConfiguration, Scenario: name, Reason: "no command provided"}
		}

		kind := delay.Kind(spec.Type)
		params := delay.Params{
			MaxDelay:     spec.MaxDelay,
			FixedDelay:   spec.FixedDelay,
			BlockSize:    spec.K,
			MaxBlockSize: spec.MaxBlockSize,
		}
		if err := delay.Validate(kind, spec.Times, params); err != nil {
			if cerr, ok := err.(cerrors.Error); ok && cerr.Scenario == "" {
				cerr.Scenario = name
				return nil, cerr
			}
			return nil, err
		}

		probes, err := validateProbes(name, spec.Probes)
		if err != nil {
			return nil, err
		}

		scenarios = append(scenarios, Details{
			Name:    name,
			Index:   idx,
			Kind:    kind,
			Command: spec.Command,
			Times:   spec.Times,
			Params:  params,
			Seed:    seed + int64(idx),
			Probes:  probes,
		})
	}
	return scenarios, nil
}

func validateProbes(scenarioName string, probes []ProbeAttributes) ([]ProbeAttributes, error) {
	seen := map[string]bool{}
	validated := make([]ProbeAttributes, len(probes))
	for i, probe := range probes {
		if strings.TrimSpace(probe.Name) == "" {
			return nil, probeError(scenarioName, "", "probe name is required")
		}
		if seen[probe.Name] {
			return nil, probeError(scenarioName, probe.Name, "probe names must be unique within a scenario")
		}
		seen[probe.Name] = true

		switch probe.Mode {
		case "SOT", "EOT", "Edge":
		default:
			return nil, probeError(scenarioName, probe.Name, fmt.Sprintf("probe mode %v not supported, supported modes: SOT, EOT, Edge", probe.Mode))
		}

		switch probe.Type {
		case "cmdProbe":
			if strings.TrimSpace(probe.CmdProbeInputs.Command) == "" {
				return nil, probeError(scenarioName, probe.Name, "no command provided for the cmd probe")
			}
			switch probe.CmdProbeInputs.Comparator.Type {
			case "int", "float", "string":
			default:
				return nil, probeError(scenarioName, probe.Name, fmt.Sprintf("comparator type %v not supported, supported types: int, float, string", probe.CmdProbeInputs.Comparator.Type))
			}
			if strings.TrimSpace(probe.CmdProbeInputs.Comparator.Criteria) == "" {
				return nil, probeError(scenarioName, probe.Name, "no comparator criteria provided for the cmd probe")
			}
		case "httpProbe":
			if strings.TrimSpace(probe.HTTPProbeInputs.URL) == "" {
				return nil, probeError(scenarioName, probe.Name, "no url provided for the http probe")
			}
			get, post := probe.HTTPProbeInputs.Method.Get, probe.HTTPProbeInputs.Method.Post
			if (get == nil) == (post == nil) {
				return nil, probeError(scenarioName, probe.Name, "the http probe needs exactly one of the get or post methods")
			}
			if get != nil {
				if strings.TrimSpace(get.ResponseCode) == "" {
					return nil, probeError(scenarioName, probe.Name, "no expected response code provided for the http get probe")
				}
				if strings.TrimSpace(get.Criteria) == "" {
					get.Criteria = "=="
				}
			}
			if post != nil {
				if strings.TrimSpace(post.ResponseCode) == "" {
					return nil, probeError(scenarioName, probe.Name, "no expected response code provided for the http post probe")
				}
				if strings.TrimSpace(post.Criteria) == "" {
					post.Criteria = "=="
				}
			}
		default:
			return nil, probeError(scenarioName, probe.Name, fmt.Sprintf("probe type %v not supported, supported types: cmdProbe, httpProbe", probe.Type))
		}

		if probe.RunProperties.Retry < 0 || probe.RunProperties.ProbeTimeout < 0 || probe.RunProperties.Interval < 0 || probe.RunProperties.InitialDelaySeconds < 0 {
			return nil, probeError(scenarioName, probe.Name, "probe run properties can not be negative")
		}
		if probe.RunProperties.Retry == 0 {
			probe.RunProperties.Retry = defaultProbeRetry
		}
		if probe.RunProperties.ProbeTimeout == 0 {
			probe.RunProperties.ProbeTimeout = defaultProbeTimeout
		}
		validated[i] = probe
	}
	return validated, nil
}

func probeError(scenarioName, probeName, reason string) error {
	if probeName != "" {
		reason = fmt.Sprintf("{probe: %v}: %v", probeName, reason)
	}
	return cerrors.Error{ErrorCode: cerrors.ErrorTypeConfiguration, Scenario: scenarioName, Reason: reason}
}
