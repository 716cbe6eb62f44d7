package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const defaultElasticsearchSize = 1000

// ElasticsearchSource pulls every document of an index with a single
// match_all search sorted by index order.
type ElasticsearchSource struct {
	Client *elasticsearch.Client
	Index  string
	Size   int
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Load fails when the index holds more documents than one page of Size can
// return, so a partial knowledge base is never served.
func (s *ElasticsearchSource) Load(ctx context.Context) ([]Document, error) {
	size := s.Size
	if size <= 0 {
		size = defaultElasticsearchSize
	}

	body := fmt.Sprintf(`{"query":{"match_all":{}},"sort":["_doc"],"size":%d,"track_total_hits":true}`, size)
	req := esapi.SearchRequest{
		Index: []string{s.Index},
		Body:  strings.NewReader(body),
	}

	res, err := req.Do(ctx, s.Client)
	if err != nil {
		return nil, fmt.Errorf("search index %s: %w", s.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search index %s failed: %s", s.Index, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if total := r.Hits.Total.Value; total > len(r.Hits.Hits) {
		return nil, fmt.Errorf("index %s holds %d documents but only %d were returned; raise knowledge.max_docs",
			s.Index, total, len(r.Hits.Hits))
	}

	docs := make([]Document, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}
