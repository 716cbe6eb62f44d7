package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresSource reads the collection from a table with the columns
// subject, class_level, chapter, topic, type, content_gu and content_en.
type PostgresSource struct {
	DB    *sql.DB
	Table string
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) ([]Document, error) {
	table, err := quoteTable(s.Table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT subject, class_level, chapter,
		COALESCE(topic, ''), COALESCE(type, ''), COALESCE(content_gu, ''), COALESCE(content_en, '')
		FROM %s ORDER BY id`, table)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Subject, &d.ClassLevel, &d.Chapter, &d.Topic, &d.Type, &d.ContentGu, &d.ContentEn); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// quoteTable quotes each part of an optionally schema-qualified table name.
func quoteTable(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("knowledge table name is empty")
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid knowledge table name %q", name)
	}
	for i, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid knowledge table name %q", name)
		}
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}
