package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/types"
)

// Sink receives the progress events of a scenario run. Implementations must
// swallow their own failures, the scenario loop never checks on them.
type Sink interface {
	OnEvent(eventDetails types.EventDetails)
}

// ConsoleSink renders progress events through the standard logger
type ConsoleSink struct{}

//NewConsoleSink returns the sink backing the default console output
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

func (s *ConsoleSink) OnEvent(eventDetails types.EventDetails) {
	switch eventDetails.Reason {
	case types.IterationCompleted:
		fields := logrus.Fields{
			"Scenario":  eventDetails.ScenarioName,
			"Iteration": fmt.Sprintf("%d/%d", eventDetails.Index+1, eventDetails.Total),
			"Took":      eventDetails.Duration.Round(time.Millisecond).String(),
		}
		if eventDetails.Delay > 0 {
			fields["Next Delay"] = eventDetails.Delay.Round(time.Millisecond).String()
		}
		log.InfoWithValues("[Status]: "+eventDetails.Message, fields)
	case types.CommandFailed:
		log.ErrorWithValues("[Status]: "+eventDetails.Message, logrus.Fields{
			"Scenario":  eventDetails.ScenarioName,
			"Iteration": fmt.Sprintf("%d/%d", eventDetails.Index+1, eventDetails.Total),
		})
	default:
		if eventDetails.Type == "Warning" {
			log.Warnf("[Status]: %v: %v", eventDetails.ScenarioName, eventDetails.Message)
		} else {
			log.Infof("[Status]: %v: %v", eventDetails.ScenarioName, eventDetails.Message)
		}
	}
}

// CollectorSink retains every event in arrival order
type CollectorSink struct {
	mu     sync.Mutex
	events []types.EventDetails
}

//NewCollectorSink returns an empty collector
func NewCollectorSink() *CollectorSink {
	return &CollectorSink{}
}

func (s *CollectorSink) OnEvent(eventDetails types.EventDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, eventDetails)
}

//Events returns a copy of the collected events
func (s *CollectorSink) Events() []types.EventDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	collected := make([]types.EventDetails, len(s.events))
	copy(collected, s.events)
	return collected
}

// MultiSink fans a single event out to a set of sinks
type MultiSink struct {
	sinks []Sink
}

//NewMultiSink composes the given sinks into one
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) OnEvent(eventDetails types.EventDetails) {
	for _, sink := range s.sinks {
		sink.OnEvent(eventDetails)
	}
}
