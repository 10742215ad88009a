package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IsInput reports whether the message counts toward input tokens.
func (m Message) IsInput() bool {
	switch strings.ToLower(m.Role) {
	case "user", "system", "human":
		return true
	}
	return false
}

var (
	markerRe  = regexp.MustCompile(`(?i)(human|user|assistant|claude):`)
	contentRe = regexp.MustCompile(`"content"\s*:\s*"([^"]*)"`)
	roleRe    = regexp.MustCompile(`"role"\s*:\s*"([^"]*)"`)
)

// SplitConversation separates a pasted transcript into the text spoken by
// the user side and the text spoken by the assistant side. Text before the
// first marker is attributed to the user.
func SplitConversation(content string) (input, output string) {
	var in, out []string
	locs := markerRe.FindAllStringSubmatchIndex(content, -1)

	head := content
	if len(locs) > 0 {
		head = content[:locs[0][0]]
	}
	if s := strings.TrimSpace(head); s != "" {
		in = append(in, s)
	}

	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(content[loc[1]:end])
		if text == "" {
			continue
		}
		switch strings.ToLower(content[loc[2]:loc[3]]) {
		case "human", "user":
			in = append(in, text)
		default:
			out = append(out, text)
		}
	}
	return strings.Join(in, " "), strings.Join(out, " ")
}

// ExtractMessages pulls role/content pairs out of something that looks like
// an API request body. Well-formed JSON with a "messages" array is decoded
// directly; anything else falls back to pairing quoted fields, and is
// rejected when the role and content counts disagree.
func ExtractMessages(data string) ([]Message, bool) {
	if !strings.Contains(data, "{") || !strings.Contains(data, "messages") {
		return nil, false
	}

	var body struct {
		System   string    `json:"system"`
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal([]byte(data), &body); err == nil && len(body.Messages) > 0 {
		msgs := body.Messages
		if body.System != "" {
			msgs = append([]Message{{Role: "system", Content: body.System}}, msgs...)
		}
		return msgs, true
	}

	contents := contentRe.FindAllStringSubmatch(data, -1)
	roles := roleRe.FindAllStringSubmatch(data, -1)
	if len(contents) == 0 || len(contents) != len(roles) {
		return nil, false
	}
	msgs := make([]Message, len(contents))
	for i := range contents {
		msgs[i] = Message{Role: roles[i][1], Content: contents[i][1]}
	}
	return msgs, true
}

var conversationIndicators = []string{
	"i'll help you",
	"let me",
	"i can help",
	"i'll create",
	"i'll analyze",
	"<function_calls>",
	"```python",
	"```javascript",
	"assistant:",
	"human:",
	"claude:",
	"antml:invoke",
	"function_calls",
	"tool:",
	"i understand you'd like",
}

var codePatterns = []string{
	"def ", "class ", "import ", "from ", "function",
	"const ", "let ", "var ", "=>", "console.log",
}

// LooksLikeConversation guesses whether clipboard text was copied from a
// Claude session. Two indicators are enough; one indicator needs at least
// two code patterns alongside it.
func LooksLikeConversation(content string) bool {
	lower := strings.ToLower(content)

	indicators := 0
	for _, s := range conversationIndicators {
		if strings.Contains(lower, s) {
			indicators++
		}
	}
	code := 0
	for _, s := range codePatterns {
		if strings.Contains(lower, s) {
			code++
		}
	}
	return indicators >= 2 || (indicators >= 1 && code >= 2)
}
