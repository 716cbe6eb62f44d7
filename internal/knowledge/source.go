package knowledge

import (
	"context"
	"time"

	"gyaansetu-gateway/internal/common/errors"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Source yields the document collection once at start-up.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Document, error)
}

// LoadIndex loads every document from src and builds the search index.
func LoadIndex(ctx context.Context, src Source, log Logger) (*Index, error) {
	start := time.Now()
	docs, err := src.Load(ctx)
	if err != nil {
		log.Error("Failed to load knowledge base", map[string]interface{}{
			"source": src.Name(),
			"error":  err,
		})
		return nil, errors.NewKnowledgeSourceError(src.Name(), err)
	}

	idx := NewIndex(docs)
	log.Info("Knowledge base loaded", map[string]interface{}{
		"source":    src.Name(),
		"documents": idx.Len(),
		"duration":  time.Since(start).String(),
	})
	return idx, nil
}
