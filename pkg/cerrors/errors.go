package cerrors

import (
	"encoding/json"
	"fmt"
)

// Error carries the failing phase and scenario along with the reason,
// it is safe to surface to the final report
type Error struct {
	Source    string    `json:"source,omitempty"`
	ErrorCode ErrorType `json:"errorCode,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Scenario  string    `json:"scenario,omitempty"`
	Target    string    `json:"target,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

func (e Error) Error() string {
	return convertToJSON(e)
}

func (e Error) UserFriendly() bool {
	return true
}

func (e Error) ErrorType() ErrorType {
	if e.ErrorCode == "" {
		return ErrorTypeGeneric
	}
	return e.ErrorCode
}

func convertToJSON(e Error) string {
	data, err := json.Marshal(e)
	if err != nil {
		if e.Phase == "" {
			return e.Reason
		}
		return fmt.Sprintf("[%s]: %s", e.Phase, e.Reason)
	}
	return string(data)
}
