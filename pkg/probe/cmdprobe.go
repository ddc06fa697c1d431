package probe

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/log"
	cmp "github.com/vtripolitakis/task-executor/pkg/probe/comparator"
	"github.com/vtripolitakis/task-executor/pkg/scenario"
	"github.com/vtripolitakis/task-executor/pkg/types"
	"github.com/vtripolitakis/task-executor/pkg/utils/retry"
)

// PrepareCmdProbe contains the steps to prepare the cmd probe
// cmd probe runs a shell command and checks its trimmed output against the comparator
func PrepareCmdProbe(ctx context.Context, probe scenario.ProbeAttributes, runner Runner, resultDetails *types.ResultDetails, phase string) error {
	if !triggeredAt(probe.Mode, phase) {
		return nil
	}

	log.InfoWithValues("[Probe]: The cmd probe information is as follows", logrus.Fields{
		"Name":           probe.Name,
		"Command":        probe.CmdProbeInputs.Command,
		"Comparator":     probe.CmdProbeInputs.Comparator,
		"Run Properties": probe.RunProperties,
		"Mode":           probe.Mode,
		"Phase":          phase,
	})

	if probe.RunProperties.InitialDelaySeconds != 0 {
		log.Infof("[Wait]: Waiting for %vs before probe execution", probe.RunProperties.InitialDelaySeconds)
		time.Sleep(time.Duration(probe.RunProperties.InitialDelaySeconds) * time.Second)
	}

	return markedVerdictInEnd(TriggerCmdProbe(ctx, probe, runner, resultDetails), resultDetails, probe, phase)
}

// TriggerCmdProbe trigger the cmd probe and stores its output into the probe register
func TriggerCmdProbe(ctx context.Context, probe scenario.ProbeAttributes, runner Runner, resultDetails *types.ResultDetails) error {

	// It parse the templated command and return normal string
	// if command doesn't have template, it will return the same command
	templated, err := ParseCommand(probe.CmdProbeInputs.Command, resultDetails)
	if err != nil {
		return err
	}
	probe.CmdProbeInputs.Command = templated

	// it will retry for some retry count, in each iterations of try it contains following things
	// it contains a timeout per iteration of retry. if the timeout expires without success then it will go to next try
	// for a timeout, it will run the command, if it fails wait for the interval and again execute the command until timeout expires
	return retry.Times(uint(probe.RunProperties.Retry)).
		Timeout(time.Duration(probe.RunProperties.ProbeTimeout) * time.Second).
		Wait(time.Duration(probe.RunProperties.Interval) * time.Second).
		TryWithTimeout(func(attempt uint) error {
			outcome := runner.Run(ctx, probe.CmdProbeInputs.Command)
			if !outcome.Succeeded() {
				if cerrors.GetErrorType(outcome.Err) == cerrors.ErrorTypeSimulationAborted {
					return outcome.Err
				}
				return errors.Errorf("unable to run the probe command, err: %v", outcome.Err)
			}

			rc := getAndIncrementRunCount(resultDetails, probe.Name)
			if err := validateResult(probe.CmdProbeInputs.Comparator, probe.Name, rc, outcome.Output); err != nil {
				log.Warnf("The %v cmd probe has been Failed", probe.Name)
				return err
			}

			probes := types.ProbeArtifact{}
			probes.ProbeArtifacts.Register = outcome.Output
			resultDetails.ProbeArtifacts[probe.Name] = probes
			return nil
		})
}

// validateResult checks the probe output against the comparator
func validateResult(comparator scenario.Comparator, probeName string, rc int, cmdOutput string) error {

	compare := cmp.RunCount(rc).
		FirstValue(cmdOutput).
		SecondValue(comparator.Value).
		Criteria(comparator.Criteria).
		ProbeName(probeName)

	switch comparator.Type {
	case "int", "Int":
		return compare.CompareInt(cerrors.ErrorTypeProbeFailed)
	case "float", "Float":
		return compare.CompareFloat(cerrors.ErrorTypeProbeFailed)
	case "string", "String":
		return compare.CompareString(cerrors.ErrorTypeProbeFailed)
	default:
		return errors.Errorf("comparator type '%s' not supported in the cmd probe", comparator.Type)
	}
}
