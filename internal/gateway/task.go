// Package gateway turns educational task requests into chat prompts, sends them
// to a local or hosted chat-completion backend with a single local-to-hosted
// fallback hop, and normalizes the model output.
package gateway

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTaskKind     = errors.New("UNKNOWN_TASK_KIND")
	ErrUnsupportedLanguage = errors.New("UNSUPPORTED_LANGUAGE")
	ErrMalformedParameters = errors.New("MALFORMED_PARAMETERS")
)

type TaskKind string

const (
	KindLessonPlan TaskKind = "lesson-plan"
	KindQuiz       TaskKind = "quiz"
	KindHomework   TaskKind = "homework"
	KindSafety     TaskKind = "safety"
	KindExplain    TaskKind = "explain"
	KindCustom     TaskKind = "custom"
)

// Kinds lists every supported task kind.
func Kinds() []TaskKind {
	return []TaskKind{KindLessonPlan, KindQuiz, KindHomework, KindSafety, KindExplain, KindCustom}
}

func (k TaskKind) Valid() bool {
	switch k {
	case KindLessonPlan, KindQuiz, KindHomework, KindSafety, KindExplain, KindCustom:
		return true
	}
	return false
}

func ParseTaskKind(s string) (TaskKind, error) {
	k := TaskKind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTaskKind, s)
	}
	return k, nil
}

// Language selects the prompt template. Gujarati is the primary language.
type Language string

const (
	LanguageGujarati Language = "gu"
	LanguageEnglish  Language = "en"
)

// ParseLanguage maps "" to Gujarati and rejects anything but "gu" and "en".
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageGujarati:
		return LanguageGujarati, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

type TaskRequest struct {
	Kind       TaskKind
	Language   Language
	Parameters map[string]interface{}
	// FreeTextTask is only read by the custom kind.
	FreeTextTask string
}
