package probe

import (
	"crypto/tls"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/log"
	cmp "github.com/vtripolitakis/task-executor/pkg/probe/comparator"
	"github.com/vtripolitakis/task-executor/pkg/scenario"
	"github.com/vtripolitakis/task-executor/pkg/types"
	"github.com/vtripolitakis/task-executor/pkg/utils/retry"
)

// PrepareHTTPProbe contains the steps to prepare the http probe
// http probe sends a request to the given url and matches the response code
func PrepareHTTPProbe(probe scenario.ProbeAttributes, resultDetails *types.ResultDetails, phase string) error {
	if !triggeredAt(probe.Mode, phase) {
		return nil
	}

	log.InfoWithValues("[Probe]: The http probe information is as follows", logrus.Fields{
		"Name":           probe.Name,
		"URL":            probe.HTTPProbeInputs.URL,
		"Run Properties": probe.RunProperties,
		"Mode":           probe.Mode,
		"Phase":          phase,
	})

	if probe.RunProperties.InitialDelaySeconds != 0 {
		log.Infof("[Wait]: Waiting for %vs before probe execution", probe.RunProperties.InitialDelaySeconds)
		time.Sleep(time.Duration(probe.RunProperties.InitialDelaySeconds) * time.Second)
	}

	return markedVerdictInEnd(TriggerHTTPProbe(probe, resultDetails), resultDetails, probe, phase)
}

// TriggerHTTPProbe run the http probe command
func TriggerHTTPProbe(probe scenario.ProbeAttributes, resultDetails *types.ResultDetails) error {

	// It parse the templated url and return normal string
	// if the url doesn't have template, it will return the same url
	templated, err := ParseCommand(probe.HTTPProbeInputs.URL, resultDetails)
	if err != nil {
		return err
	}
	probe.HTTPProbeInputs.URL = templated

	// initialize simple http client with default attributes
	timeout := time.Duration(probe.RunProperties.ProbeTimeout) * time.Second
	client := &http.Client{Timeout: timeout}
	// impose properties to http client with cert check disabled
	if probe.HTTPProbeInputs.InsecureSkipVerify {
		transCfg := &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		client = &http.Client{Transport: transCfg, Timeout: timeout}
	}

	if probe.HTTPProbeInputs.Method.Get != nil {
		log.InfoWithValues("[Probe]: HTTP get method information", logrus.Fields{
			"Name":         probe.Name,
			"URL":          probe.HTTPProbeInputs.URL,
			"Criteria":     probe.HTTPProbeInputs.Method.Get.Criteria,
			"ResponseCode": probe.HTTPProbeInputs.Method.Get.ResponseCode,
		})
		return httpGet(probe, client, resultDetails)
	}

	log.InfoWithValues("[Probe]: HTTP post method information", logrus.Fields{
		"Name":         probe.Name,
		"URL":          probe.HTTPProbeInputs.URL,
		"Body":         probe.HTTPProbeInputs.Method.Post.Body,
		"ContentType":  probe.HTTPProbeInputs.Method.Post.ContentType,
		"ResponseCode": probe.HTTPProbeInputs.Method.Post.ResponseCode,
	})
	return httpPost(probe, client, resultDetails)
}

// httpGet send the http Get request to the given URL and verify the response code to follow the specified criteria
func httpGet(probe scenario.ProbeAttributes, client *http.Client, resultDetails *types.ResultDetails) error {
	// it will retry for some retry count, in each iterations of try it contains following things
	// it contains a timeout per iteration of retry. if the timeout expires without success then it will go to next try
	// for a timeout, it will run the command, if it fails wait for the interval and again execute the command until timeout expires
	return retry.Times(uint(probe.RunProperties.Retry)).
		Timeout(time.Duration(probe.RunProperties.ProbeTimeout) * time.Second).
		Wait(time.Duration(probe.RunProperties.Interval) * time.Second).
		TryWithTimeout(func(attempt uint) error {
			resp, err := client.Get(probe.HTTPProbeInputs.URL)
			if err != nil {
				return err
			}
			resp.Body.Close()

			code := strconv.Itoa(resp.StatusCode)
			rc := getAndIncrementRunCount(resultDetails, probe.Name)

			// comparing the response code with the expected criteria
			if err = cmp.RunCount(rc).
				FirstValue(code).
				SecondValue(probe.HTTPProbeInputs.Method.Get.ResponseCode).
				Criteria(probe.HTTPProbeInputs.Method.Get.Criteria).
				ProbeName(probe.Name).
				CompareInt(cerrors.ErrorTypeProbeFailed); err != nil {
				log.Errorf("The %v http probe get method has Failed, err: %v", probe.Name, err)
				return err
			}
			return nil
		})
}

// httpPost send the http post request to the given URL
func httpPost(probe scenario.ProbeAttributes, client *http.Client, resultDetails *types.ResultDetails) error {
	// it will retry for some retry count, in each iterations of try it contains following things
	// it contains a timeout per iteration of retry. if the timeout expires without success then it will go to next try
	// for a timeout, it will run the command, if it fails wait for the interval and again execute the command until timeout expires
	return retry.Times(uint(probe.RunProperties.Retry)).
		Timeout(time.Duration(probe.RunProperties.ProbeTimeout) * time.Second).
		Wait(time.Duration(probe.RunProperties.Interval) * time.Second).
		TryWithTimeout(func(attempt uint) error {
			resp, err := client.Post(probe.HTTPProbeInputs.URL, probe.HTTPProbeInputs.Method.Post.ContentType, strings.NewReader(probe.HTTPProbeInputs.Method.Post.Body))
			if err != nil {
				return err
			}
			resp.Body.Close()

			code := strconv.Itoa(resp.StatusCode)
			rc := getAndIncrementRunCount(resultDetails, probe.Name)

			// comparing the response code with the expected criteria
			if err = cmp.RunCount(rc).
				FirstValue(code).
				SecondValue(probe.HTTPProbeInputs.Method.Post.ResponseCode).
				Criteria(probe.HTTPProbeInputs.Method.Post.Criteria).
				ProbeName(probe.Name).
				CompareInt(cerrors.ErrorTypeProbeFailed); err != nil {
				log.Errorf("The %v http probe post method has Failed, err: %v", probe.Name, err)
				return err
			}
			return nil
		})
}
