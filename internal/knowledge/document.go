// Package knowledge holds the read-only curriculum document collection and the
// keyword-overlap retrieval used by the grounded-answer path.
package knowledge

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Document is one curriculum passage. JSON tags match the bundled snapshot and
// the documents stored in Elasticsearch and Redis.
type Document struct {
	Subject    string `json:"subject"`
	ClassLevel int    `json:"class"`
	Chapter    string `json:"chapter"`
	Topic      string `json:"topic"`
	Type       string `json:"type"`
	// ContentEn is the English passage, ContentGu the Gujarati one.
	ContentEn string `json:"content"`
	ContentGu string `json:"contentGu"`
}

// ContentFor returns the English passage for "en" and the Gujarati one otherwise.
func (d Document) ContentFor(lang string) string {
	if lang == "en" {
		return d.ContentEn
	}
	return d.ContentGu
}

type ScoredDocument struct {
	Document
	Score float64 `json:"score"`
}

// Filters narrow the collection before scoring. Zero values mean unset.
type Filters struct {
	Subject    string
	ClassLevel int
	Chapter    string
}

// NormalizeText folds s to Unicode NFC so composed and decomposed Gujarati
// sequences compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}

func normalizeDocument(d Document) Document {
	d.Subject = strings.TrimSpace(NormalizeText(d.Subject))
	d.Chapter = strings.TrimSpace(NormalizeText(d.Chapter))
	d.Topic = strings.TrimSpace(NormalizeText(d.Topic))
	d.Type = strings.TrimSpace(d.Type)
	d.ContentEn = NormalizeText(d.ContentEn)
	d.ContentGu = NormalizeText(d.ContentGu)
	return d
}
