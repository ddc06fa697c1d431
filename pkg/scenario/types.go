package scenario

import (
	"github.com/vtripolitakis/task-executor/pkg/delay"
)

// File is the root document of the scenarios file
type File struct {
	Scenarios []Spec `yaml:"scenarios"`
}

// Spec is one raw scenario entry of the scenarios file
type Spec struct {
	Name         string            `yaml:"name"`
	Type         string            `yaml:"type"`
	Command      string            `yaml:"command"`
	Times        int               `yaml:"times"`
	MaxDelay     float64           `yaml:"max_delay"`
	K            int               `yaml:"k"`
	FixedDelay   float64           `yaml:"fixed_delay"`
	MaxBlockSize int               `yaml:"max_block_size"`
	Probes       []ProbeAttributes `yaml:"probes"`
}

// Details is a fully validated, executable scenario
type Details struct {
	Name    string
	Index   int
	Kind    delay.Kind
	Command string
	Times   int
	Params  delay.Params
	Seed    int64
	Probes  []ProbeAttributes
}

// ProbeAttributes contains details of a probe attached to a scenario
type ProbeAttributes struct {
	// Name of the probe
	Name string `yaml:"name"`
	// Type of the probe, cmdProbe or httpProbe
	Type string `yaml:"type"`
	// Mode of the probe, SOT, EOT or Edge
	Mode string `yaml:"mode"`
	// inputs needed for the cmd probe
	CmdProbeInputs CmdProbeInputs `yaml:"cmdProbe/inputs,omitempty"`
	// inputs needed for the http probe
	HTTPProbeInputs HTTPProbeInputs `yaml:"httpProbe/inputs,omitempty"`
	// RunProperty contains timeout, retry and interval
	RunProperties RunProperty `yaml:"runProperties,omitempty"`
}

// CmdProbeInputs contains all the inputs required for cmd probe
type CmdProbeInputs struct {
	// Command which needs to run for the probe
	Command string `yaml:"command"`
	// Comparator check for the correctness of the probe output
	Comparator Comparator `yaml:"comparator"`
}

// HTTPProbeInputs contains all the inputs required for http probe
type HTTPProbeInputs struct {
	// URL which needs to curl, to check the status
	URL string `yaml:"url"`
	// InsecureSkipVerify flag to skip certificate checks
	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`
	// Method define the http method, it can be get or post
	Method HTTPMethod `yaml:"method"`
}

// HTTPMethod define the http method details
type HTTPMethod struct {
	Get  *GetMethod  `yaml:"get,omitempty"`
	Post *PostMethod `yaml:"post,omitempty"`
}

// GetMethod define the http Get method
type GetMethod struct {
	// Criteria for matching the response code, it can be ==, !=, oneOf
	Criteria string `yaml:"criteria"`
	// ResponseCode expected response code
	ResponseCode string `yaml:"responseCode"`
}

// PostMethod define the http Post method
type PostMethod struct {
	// ContentType contains the data type of the body
	ContentType string `yaml:"contentType"`
	// Body contains the http body
	Body string `yaml:"body"`
	// Criteria for matching the response code, it can be ==, !=, oneOf
	Criteria string `yaml:"criteria"`
	// ResponseCode expected response code
	ResponseCode string `yaml:"responseCode"`
}

// Comparator check for the correctness of the probe output
type Comparator struct {
	// Type of the comparator, int, float or string
	Type string `yaml:"type"`
	// Criteria of the comparator, >=, <=, ==, >, <, != for int and float,
	// equal, notEqual, contains, matches, notMatches, oneOf for string
	Criteria string `yaml:"criteria"`
	// Value to compare the probe output against
	Value string `yaml:"value"`
}

// RunProperty contains timeout, retry and interval of the probe
type RunProperty struct {
	// ProbeTimeout of the probe in seconds, defaults to 5
	ProbeTimeout int `yaml:"probeTimeout"`
	// Interval between the probe retries in seconds
	Interval int `yaml:"interval"`
	// Retry count of the probe, defaults to 1
	Retry int `yaml:"retry"`
	// InitialDelaySeconds to wait before the probe runs
	InitialDelaySeconds int `yaml:"initialDelaySeconds"`
}
