package gateway

import (
	"fmt"
	"strings"
)

// MaxChatHistory is how many earlier turns accompany a chat message.
const MaxChatHistory = 10

const maxTokensChat = 2000

type ChatMode string

const (
	ChatModeSimple     ChatMode = "simple"
	ChatModeStory      ChatMode = "story"
	ChatModeStepByStep ChatMode = "stepByStep"
	ChatModeVisual     ChatMode = "visual"
)

var chatModePrompts = map[ChatMode]string{
	ChatModeSimple: "તમે એક મદદગાર AI શિક્ષક છો જે ગુજરાતીમાં સરળ શબ્દોમાં સમજાવે છે.\n" +
		"વિદ્યાર્થીની ઉંમર અને ધોરણ પ્રમાણે ભાષા વાપરો.\n" +
		"ટૂંકા અને સ્પષ્ટ જવાબો આપો.",
	ChatModeStory: "તમે એક કહાનીકાર શિક્ષક છો.\n" +
		"દરેક વિષયને એક રસપ્રદ વાર્તા દ્વારા સમજાવો.\n" +
		"ઉદાહરણો અને કલ્પના સાથે શીખવો.",
	ChatModeStepByStep: "તમે એક વ્યવસ્થિત શિક્ષક છો.\n" +
		"દરેક વિષયને ક્રમબદ્ધ પગલાંમાં સમજાવો:\n" +
		"1. પ્રથમ મૂળભૂત ખ્યાલ\n2. પછી વિગતો\n3. છેવટે ઉદાહરણો\n" +
		"નંબરિંગ અને બુલેટ પોઈન્ટ્સ વાપરો.",
	ChatModeVisual: "તમે એક દ્રશ્ય શિક્ષક છો.\n" +
		"ASCII આર્ટ, ડાયાગ્રામ અને ચિત્રાત્મક વર્ણન વાપરો.\n" +
		"ઇમોજી અને પ્રતીકોથી સમજાવો.",
}

const (
	chatClassContext   = "\n\nવિદ્યાર્થી ધોરણ %sમાં છે. તે મુજબ ભાષા અને ઉદાહરણો પસંદ કરો."
	chatSubjectContext = "\n\nવર્તમાન વિષય: %s. આ વિષય પર ધ્યાન કેન્દ્રિત કરો."
	chatRules          = "\n\nમહત્વના નિયમો:\n" +
		"- હંમેશા ગુજરાતીમાં જવાબ આપો\n" +
		"- વિદ્યાર્થી-મૈત્રીપૂર્ણ ભાષા વાપરો\n" +
		"- શૈક્ષણિક અને સકારાત્મક રહો\n" +
		"- જો ખબર ન હોય તો કહો \"મને આ વિશે ખાતરી નથી\""
)

// ChatPrompt is one tutoring chat turn with its conversation context.
type ChatPrompt struct {
	Message    string
	Mode       ChatMode
	ClassLevel string
	Subject    string
	History    []Message
}

// BuildChat renders a tutoring chat turn. Unknown or empty modes fall back to
// the simple mode. Only the last MaxChatHistory user and assistant turns are
// kept; other roles and empty turns are dropped.
func BuildChat(c ChatPrompt) PromptPair {
	base, ok := chatModePrompts[c.Mode]
	if !ok {
		base = chatModePrompts[ChatModeSimple]
	}

	var b strings.Builder
	b.WriteString(base)
	if c.ClassLevel != "" {
		fmt.Fprintf(&b, chatClassContext, c.ClassLevel)
	}
	if c.Subject != "" {
		fmt.Fprintf(&b, chatSubjectContext, c.Subject)
	}
	b.WriteString(chatRules)

	return PromptPair{
		SystemInstruction: b.String(),
		History:           recentTurns(c.History, MaxChatHistory),
		UserContent:       c.Message,
		MaxOutputTokens:   maxTokensChat,
	}
}

func recentTurns(history []Message, limit int) []Message {
	turns := make([]Message, 0, len(history))
	for _, m := range history {
		if (m.Role == RoleUser || m.Role == RoleAssistant) && strings.TrimSpace(m.Content) != "" {
			turns = append(turns, m)
		}
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	if len(turns) == 0 {
		return nil
	}
	return turns
}
