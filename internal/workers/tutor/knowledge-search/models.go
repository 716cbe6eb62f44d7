// internal/workers/tutor/knowledge-search/models.go
package knowledgesearch

import "gyaansetu-gateway/internal/tutor"

type Input struct {
	Query      string `json:"query"`
	Subject    string `json:"subject"`
	ClassLevel int    `json:"classLevel"`
	Chapter    string `json:"chapter"`
	TopK       int    `json:"topK"`
	UseChat    bool   `json:"useChat"`
	SessionID  string `json:"sessionId"`
	Language   string `json:"language"`
}

// Output merges both response shapes; only one side is populated per job.
type Output struct {
	Documents  []tutor.DocumentView `json:"documents,omitempty"`
	TotalFound int                  `json:"totalFound"`
	Response   string               `json:"response,omitempty"`
	Sources    []tutor.SourceView   `json:"sources,omitempty"`
	SessionID  string               `json:"sessionId,omitempty"`
}
