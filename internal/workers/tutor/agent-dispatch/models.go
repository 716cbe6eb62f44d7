// internal/workers/tutor/agent-dispatch/models.go
package agentdispatch

type Input struct {
	AgentType string                 `json:"agentType"`
	Task      string                 `json:"task"`
	Params    map[string]interface{} `json:"params"`
	Language  string                 `json:"language"`
}

type Output struct {
	AgentType string      `json:"agentType"`
	Language  string      `json:"language"`
	Result    interface{} `json:"result"`
}
