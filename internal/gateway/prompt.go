package gateway

import (
	"fmt"
	"strings"
)

// Output budgets per kind. Short-form kinds get the smaller budget.
const (
	maxTokensLessonPlan = 3000
	maxTokensQuiz       = 3000
	maxTokensHomework   = 2000
	maxTokensSafety     = 2000
	maxTokensExplain    = 1500
	maxTokensCustom     = 1500
	maxTokensAnswer     = 1500
)

type PromptPair struct {
	SystemInstruction string
	// History holds earlier conversation turns sent between the system
	// instruction and the user content. Empty for single-shot tasks.
	History         []Message
	UserContent     string
	MaxOutputTokens int
}

// Message is one chat turn as both backend shapes encode it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Messages returns the full ordered conversation for one attempt.
func (p PromptPair) Messages() []Message {
	msgs := make([]Message, 0, len(p.History)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: p.SystemInstruction})
	msgs = append(msgs, p.History...)
	return append(msgs, Message{Role: RoleUser, Content: p.UserContent})
}

// Build renders the prompt pair for a task. An empty language means Gujarati.
func Build(task TaskRequest) (PromptPair, error) {
	tpl, err := templateFor(task.Language)
	if err != nil {
		return PromptPair{}, err
	}
	p := params(task.Parameters)

	pair := PromptPair{SystemInstruction: tpl.system}
	switch task.Kind {
	case KindLessonPlan:
		pair.UserContent = fmt.Sprintf(tpl.lessonPlan,
			p.str("classLevel", ""), p.str("subject", ""), p.str("chapter", ""),
			p.str("topic", ""), p.str("duration", "45"), p.str("board", "GSEB"))
		pair.MaxOutputTokens = maxTokensLessonPlan

	case KindQuiz:
		pair.UserContent = fmt.Sprintf(tpl.quiz,
			p.str("questionCount", "10"), p.str("classLevel", ""), p.str("subject", ""),
			p.str("chapter", ""), p.str("topics", ""), p.str("difficulty", "medium"),
			p.str("questionTypes", "mcq, short, truefalse"))
		pair.MaxOutputTokens = maxTokensQuiz

	case KindHomework:
		expected := ""
		if answers := p.str("expectedAnswers", ""); answers != "" {
			expected = fmt.Sprintf(tpl.expected, answers)
		}
		pair.UserContent = fmt.Sprintf(tpl.homework,
			p.str("subject", ""), p.str("homeworkText", ""), expected)
		pair.MaxOutputTokens = maxTokensHomework

	case KindSafety:
		pair.UserContent = fmt.Sprintf(tpl.safety,
			p.str("targetAge", "12"), p.str("content", ""))
		pair.MaxOutputTokens = maxTokensSafety

	case KindExplain:
		pair.UserContent = fmt.Sprintf(tpl.explain,
			p.str("concept", ""), p.str("classLevel", ""), p.str("subject", ""),
			p.str("complexity", "medium"))
		pair.MaxOutputTokens = maxTokensExplain

	case KindCustom:
		data, err := p.encode()
		if err != nil {
			return PromptPair{}, err
		}
		pair.UserContent = fmt.Sprintf(tpl.custom, task.FreeTextTask, data)
		pair.MaxOutputTokens = maxTokensCustom

	default:
		return PromptPair{}, fmt.Errorf("%w: %q", ErrUnknownTaskKind, task.Kind)
	}
	return pair, nil
}

// BuildAnswer renders the grounded-answer prompt: the retrieved passages go into
// the system instruction and the question is the user content.
func BuildAnswer(question string, passages []string, lang Language) (PromptPair, error) {
	tpl, err := templateFor(lang)
	if err != nil {
		return PromptPair{}, err
	}
	return PromptPair{
		SystemInstruction: fmt.Sprintf(tpl.answer, strings.Join(passages, "\n\n")),
		UserContent:       question,
		MaxOutputTokens:   maxTokensAnswer,
	}, nil
}

func templateFor(lang Language) (templateSet, error) {
	if lang == "" {
		lang = LanguageGujarati
	}
	tpl, ok := templates[lang]
	if !ok {
		return templateSet{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return tpl, nil
}
