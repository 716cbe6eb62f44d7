package tutor

import (
	"bytes"
	"encoding/json"
	"time"

	"gyaansetu-gateway/internal/gateway"
)

// AgentRequest asks for one generated artifact (lesson plan, quiz, ...).
type AgentRequest struct {
	AgentType string                 `json:"agentType"`
	Task      string                 `json:"task,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Language  string                 `json:"language,omitempty"`
}

// AgentResponse echoes the kind and language around the normalized result.
type AgentResponse struct {
	AgentType string      `json:"agentType"`
	Language  string      `json:"language"`
	Result    interface{} `json:"result"`
}

type KnowledgeRequest struct {
	Query      string `json:"query"`
	Subject    string `json:"subject,omitempty"`
	ClassLevel int    `json:"classLevel,omitempty"`
	Chapter    string `json:"chapter,omitempty"`
	TopK       int    `json:"topK,omitempty"`
	UseChat    bool   `json:"useChat,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	Language   string `json:"language,omitempty"`
}

type DocumentView struct {
	Subject   string  `json:"subject"`
	Class     int     `json:"class"`
	Chapter   string  `json:"chapter"`
	Topic     string  `json:"topic"`
	Content   string  `json:"content"`
	ContentGu string  `json:"contentGu"`
	Type      string  `json:"type"`
	Score     float64 `json:"score"`
}

type RetrievalResponse struct {
	Documents  []DocumentView `json:"documents"`
	TotalFound int            `json:"totalFound"`
}

type SourceView struct {
	Subject string  `json:"subject"`
	Chapter string  `json:"chapter"`
	Topic   string  `json:"topic"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type ChatResponse struct {
	Response  string       `json:"response"`
	Sources   []SourceView `json:"sources"`
	SessionID string       `json:"sessionId,omitempty"`
}

// KnowledgeResponse carries exactly one of the two shapes.
type KnowledgeResponse struct {
	Retrieval *RetrievalResponse
	Chat      *ChatResponse
}

// Body returns the populated shape for encoding.
func (r *KnowledgeResponse) Body() interface{} {
	if r.Chat != nil {
		return r.Chat
	}
	return r.Retrieval
}

// ChatRequest is one tutoring chat message with optional earlier turns.
type ChatRequest struct {
	Message             string            `json:"message"`
	Mode                string            `json:"mode,omitempty"`
	ClassLevel          ClassLevel        `json:"classLevel,omitempty"`
	Subject             string            `json:"subject,omitempty"`
	ConversationHistory []gateway.Message `json:"conversationHistory,omitempty"`
}

type ChatReply struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ClassLevel accepts either a JSON number or a string such as "8".
type ClassLevel string

func (c *ClassLevel) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ClassLevel(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ClassLevel(n.String())
	return nil
}
