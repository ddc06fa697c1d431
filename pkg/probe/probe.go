package probe

import (
	"bytes"
	"context"
	"text/template"

	"github.com/kyokomi/emoji"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/scenario"
	"github.com/vtripolitakis/task-executor/pkg/types"
	"github.com/vtripolitakis/task-executor/pkg/utils/command"
)

// Runner executes probe commands and reports their outcome
type Runner interface {
	Run(ctx context.Context, commandLine string) command.Outcome
}

// RunProbes contains the steps to trigger the probes of a scenario
// It triggers both probe flavours: cmdProbe and httpProbe
func RunProbes(ctx context.Context, details scenario.Details, runner Runner, resultDetails *types.ResultDetails, phase string) error {
	for _, probe := range details.Probes {
		switch probe.Type {
		case "cmdProbe":
			if err := PrepareCmdProbe(ctx, probe, runner, resultDetails, phase); err != nil {
				return err
			}
		case "httpProbe":
			if err := PrepareHTTPProbe(probe, resultDetails, phase); err != nil {
				return err
			}
		default:
			return errors.Errorf("probe type '%s' not supported", probe.Type)
		}
	}
	return nil
}

// triggeredAt matches the probe mode against the run phase
// SOT probes run before the command loop, EOT probes after it, Edge probes in both phases
func triggeredAt(mode, phase string) bool {
	return (mode == "SOT" && phase == types.PreRunCheck) || (mode == "EOT" && phase == types.PostRunCheck) || mode == "Edge"
}

//SetProbesInResult seeds the probe details of the scenario result
func SetProbesInResult(probes []scenario.ProbeAttributes, resultDetails *types.ResultDetails) {
	probeDetails := []types.ProbeDetails{}
	for _, probe := range probes {
		probeDetail := types.ProbeDetails{
			Name: probe.Name,
			Type: probe.Type,
			Mode: probe.Mode,
		}
		SetProbeIntialStatus(&probeDetail, probe.Mode)
		probeDetails = append(probeDetails, probeDetail)
	}
	resultDetails.ProbeDetails = probeDetails
}

//SetProbeIntialStatus sets the initial status inside the scenario result
func SetProbeIntialStatus(probeDetails *types.ProbeDetails, mode string) {
	if mode == "Edge" {
		probeDetails.Status = map[string]string{
			"PreRun":  "Awaited",
			"PostRun": "Awaited",
		}
	} else if mode == "SOT" {
		probeDetails.Status = map[string]string{
			"PreRun": "Awaited",
		}
	} else {
		probeDetails.Status = map[string]string{
			"PostRun": "Awaited",
		}
	}
}

//SetProbeVerdict mark the verdict of the probe in the scenario result
// on the basis of the phase it ran in
func SetProbeVerdict(resultDetails *types.ResultDetails, verdict, probeName, probeType, mode, phase string) {
	for index, probe := range resultDetails.ProbeDetails {
		if probe.Name == probeName && probe.Type == probeType {
			if phase == types.PreRunCheck && (mode == "SOT" || mode == "Edge") {
				resultDetails.ProbeDetails[index].Status["PreRun"] = verdict + emoji.Sprint(" :thumbsup:")
			} else if phase == types.PostRunCheck && (mode == "EOT" || mode == "Edge") {
				resultDetails.ProbeDetails[index].Status["PostRun"] = verdict + emoji.Sprint(" :thumbsup:")
			}
		}
	}
}

//SetProbeVerdictAfterFailure mark the verdict of all the failed/unrun probes as failed
func SetProbeVerdictAfterFailure(resultDetails *types.ResultDetails) {
	for index := range resultDetails.ProbeDetails {
		if resultDetails.ProbeDetails[index].Status["PreRun"] == "Awaited" {
			resultDetails.ProbeDetails[index].Status["PreRun"] = "Better Luck Next Time" + emoji.Sprint(" :thumbsdown:")
		}
		if resultDetails.ProbeDetails[index].Status["PostRun"] == "Awaited" {
			resultDetails.ProbeDetails[index].Status["PostRun"] = "Better Luck Next Time" + emoji.Sprint(" :thumbsdown:")
		}
	}
}

// markedVerdictInEnd marks the verdict of the probe, failing the probe marks
// every still awaited probe of the scenario as failed too
func markedVerdictInEnd(err error, resultDetails *types.ResultDetails, probe scenario.ProbeAttributes, phase string) error {
	if err != nil {
		log.ErrorWithValues("[Probe]: "+probe.Name+" probe has been Failed "+emoji.Sprint(":thumbsdown:"), logrus.Fields{
			"Type":  probe.Type,
			"Mode":  probe.Mode,
			"Phase": phase,
		})
		SetProbeVerdictAfterFailure(resultDetails)
		return err
	}

	SetProbeVerdict(resultDetails, "Passed", probe.Name, probe.Type, probe.Mode, phase)
	resultDetails.PassedProbeCount++
	log.InfoWithValues("[Probe]: "+probe.Name+" probe has been Passed "+emoji.Sprint(":thumbsup:"), logrus.Fields{
		"Type":  probe.Type,
		"Mode":  probe.Mode,
		"Phase": phase,
	})
	return nil
}

// getAndIncrementRunCount increments the run count of the given probe
func getAndIncrementRunCount(resultDetails *types.ResultDetails, probeName string) int {
	for index := range resultDetails.ProbeDetails {
		if resultDetails.ProbeDetails[index].Name == probeName {
			resultDetails.ProbeDetails[index].RunCount++
			return resultDetails.ProbeDetails[index].RunCount
		}
	}
	return 0
}

// ParseCommand fills the probe artifact registers into the templated command
// if the command doesn't have a template, it is returned as is
func ParseCommand(templatedCommand string, resultDetails *types.ResultDetails) (string, error) {
	register := resultDetails.ProbeArtifacts

	t, err := template.New("probe").Parse(templatedCommand)
	if err != nil {
		return "", errors.Errorf("unable to parse the templated command, err: %v", err)
	}

	var out bytes.Buffer
	if err := t.Execute(&out, register); err != nil {
		return "", errors.Errorf("unable to substitute the probe artifacts, err: %v", err)
	}
	return out.String(), nil
}
