// Package tutor implements the two tutoring operations shared by the HTTP API
// and the workflow job workers: agent task dispatch and knowledge search.
package tutor

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gyaansetu-gateway/internal/common/errors"
	"gyaansetu-gateway/internal/gateway"
	"gyaansetu-gateway/internal/knowledge"
)

// FailedResponseText is returned as the answer when only the local backend was
// configured and it produced no text.
const FailedResponseText = "Failed to generate response"

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Dispatcher is the subset of *gateway.Gateway the service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, task gateway.TaskRequest, creds gateway.BackendCredentials) (gateway.NormalizedResult, error)
	Complete(ctx context.Context, pair gateway.PromptPair, creds gateway.BackendCredentials) (string, error)
}

type Service struct {
	dispatcher Dispatcher
	index      *knowledge.Index
	logger     Logger
}

func NewService(dispatcher Dispatcher, index *knowledge.Index, log Logger) *Service {
	return &Service{dispatcher: dispatcher, index: index, logger: log}
}

// Agent runs one generation task. All returned errors are *errors.StandardError.
func (s *Service) Agent(ctx context.Context, req AgentRequest, creds gateway.BackendCredentials) (*AgentResponse, error) {
	kind, err := gateway.ParseTaskKind(req.AgentType)
	if err != nil {
		return nil, errors.NewUnknownTaskKindError(req.AgentType)
	}
	lang, err := gateway.ParseLanguage(req.Language)
	if err != nil {
		return nil, errors.NewInvalidRequestError(err.Error())
	}

	result, err := s.dispatcher.Dispatch(ctx, gateway.TaskRequest{
		Kind:         kind,
		Language:     lang,
		Parameters:   req.Params,
		FreeTextTask: req.Task,
	}, creds)
	if err != nil {
		return nil, classifyDispatchError(err)
	}

	return &AgentResponse{
		AgentType: string(kind),
		Language:  string(lang),
		Result:    result.Value(),
	}, nil
}

// Knowledge retrieves matching documents and, when UseChat is set, answers the
// query grounded on them. Backend credentials are required in both modes.
func (s *Service) Knowledge(ctx context.Context, req KnowledgeRequest, creds gateway.BackendCredentials) (*KnowledgeResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.NewQueryRequiredError()
	}
	if err := creds.Validate(); err != nil {
		return nil, classifyDispatchError(err)
	}
	lang, err := gateway.ParseLanguage(req.Language)
	if err != nil {
		return nil, errors.NewInvalidRequestError(err.Error())
	}

	docs := s.index.Search(req.Query, knowledge.Filters{
		Subject:    req.Subject,
		ClassLevel: req.ClassLevel,
		Chapter:    req.Chapter,
	}, req.TopK)

	s.logger.Info("Knowledge search completed", map[string]interface{}{
		"returned": len(docs),
		"useChat":  req.UseChat,
		"language": lang,
	})

	if !req.UseChat {
		views := make([]DocumentView, 0, len(docs))
		for _, d := range docs {
			views = append(views, DocumentView{
				Subject:   d.Subject,
				Class:     d.ClassLevel,
				Chapter:   d.Chapter,
				Topic:     d.Topic,
				Content:   d.ContentEn,
				ContentGu: d.ContentGu,
				Type:      d.Type,
				Score:     d.Score,
			})
		}
		return &KnowledgeResponse{Retrieval: &RetrievalResponse{Documents: views, TotalFound: len(views)}}, nil
	}

	passages := make([]string, 0, len(docs))
	sources := make([]SourceView, 0, len(docs))
	for _, d := range docs {
		content := d.ContentFor(string(lang))
		passages = append(passages, content)
		sources = append(sources, SourceView{
			Subject: d.Subject,
			Chapter: d.Chapter,
			Topic:   d.Topic,
			Content: content,
			Score:   d.Score,
		})
	}

	pair, err := gateway.BuildAnswer(req.Query, passages, lang)
	if err != nil {
		return nil, errors.NewInvalidRequestError(err.Error())
	}

	answer, err := s.dispatcher.Complete(ctx, pair, creds)
	if err != nil {
		var attemptErr *gateway.AttemptError
		if stderrors.As(err, &attemptErr) && attemptErr.Shape == gateway.ShapeLocal {
			s.logger.Warn("Local backend produced no answer", map[string]interface{}{
				"errorKind": attemptErr.Kind,
			})
			answer = FailedResponseText
		} else {
			return nil, classifyDispatchError(err)
		}
	}

	return &KnowledgeResponse{Chat: &ChatResponse{
		Response:  answer,
		Sources:   sources,
		SessionID: req.SessionID,
	}}, nil
}

// Chat answers one tutoring chat message in Gujarati, carrying the recent
// conversation as context.
func (s *Service) Chat(ctx context.Context, req ChatRequest, creds gateway.BackendCredentials) (*ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, errors.NewMessageRequiredError()
	}

	pair := gateway.BuildChat(gateway.ChatPrompt{
		Message:    req.Message,
		Mode:       gateway.ChatMode(req.Mode),
		ClassLevel: strings.TrimSpace(string(req.ClassLevel)),
		Subject:    req.Subject,
		History:    req.ConversationHistory,
	})

	answer, err := s.dispatcher.Complete(ctx, pair, creds)
	if err != nil {
		return nil, classifyDispatchError(err)
	}

	s.logger.Info("Chat turn answered", map[string]interface{}{
		"mode":         req.Mode,
		"historyTurns": len(pair.History),
	})
	return &ChatReply{Success: true, Response: answer, Timestamp: time.Now().UTC()}, nil
}

func classifyDispatchError(err error) *errors.StandardError {
	switch {
	case stderrors.Is(err, gateway.ErrNoCredentials):
		return errors.NewConfigurationError(err.Error())
	case stderrors.Is(err, gateway.ErrUnknownTaskKind):
		return errors.NewUnknownTaskKindError(err.Error())
	case stderrors.Is(err, gateway.ErrMalformedParameters), stderrors.Is(err, gateway.ErrUnsupportedLanguage):
		return errors.NewInvalidRequestError(err.Error())
	case stderrors.Is(err, gateway.ErrHostedRejected):
		return errors.NewBackendRejectedError(err)
	}

	var attemptErr *gateway.AttemptError
	if stderrors.As(err, &attemptErr) {
		switch attemptErr.Kind {
		case gateway.ErrorKindNetwork:
			return errors.NewBackendUnavailableError(err)
		case gateway.ErrorKindMalformed:
			return errors.NewBackendMalformedError(err)
		}
	}
	return errors.NewDispatchFailedError(err)
}
