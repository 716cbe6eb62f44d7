package knowledge

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/gseb.json
var gsebSnapshot []byte

// EmbeddedSource serves the bundled GSEB class 10 sample set.
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded" }

func (EmbeddedSource) Load(_ context.Context) ([]Document, error) {
	return DecodeSnapshot(gsebSnapshot)
}

// DecodeSnapshot parses a JSON array of documents.
func DecodeSnapshot(data []byte) ([]Document, error) {
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode document snapshot: %w", err)
	}
	return docs, nil
}
