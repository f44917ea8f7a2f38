package delegate

import (
	"encoding/json"
	"fmt"
	"strings"

	"polyc/internal/token"
)

// wireToken is the schema the backend must produce for lexical candidates.
type wireToken struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Line int    `json:"line"`
}

// parseTokenCandidate validates one backend candidate against the shared
// token schema. Unknown kinds, bad lines and malformed JSON all reject the
// candidate; the caller tries the next one.
func parseTokenCandidate(candidate string) ([]token.Token, error) {
	cleaned := stripFences(candidate)
	var wire []wireToken
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("candidate is not a token array: %w", err)
	}
	if len(wire) == 0 {
		return nil, fmt.Errorf("candidate tokenized to nothing")
	}
	out := make([]token.Token, 0, len(wire))
	for i, wt := range wire {
		kind, ok := token.ParseKind(wt.Kind)
		if !ok {
			return nil, fmt.Errorf("token %d: unknown kind %q", i, wt.Kind)
		}
		if wt.Text == "" {
			return nil, fmt.Errorf("token %d: empty lexeme", i)
		}
		if wt.Line <= 0 {
			return nil, fmt.Errorf("token %d: line %d out of range", i, wt.Line)
		}
		out = append(out, token.Token{Kind: kind, Text: wt.Text, Line: wt.Line})
	}
	return out, nil
}

// syntaxReply is either a token array or an {"error": ...} object.
type syntaxError struct {
	Error string `json:"error"`
}

// parseSyntaxCandidate interprets one parse-check reply.
// Возвращает (tokens, "", nil) для валидного потока и ("", msg, nil) когда
// бэкенд сообщил синтаксическую ошибку.
func parseSyntaxCandidate(candidate string) ([]token.Token, string, error) {
	cleaned := stripFences(candidate)
	if strings.HasPrefix(strings.TrimSpace(cleaned), "{") {
		var reply syntaxError
		if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
			return nil, "", fmt.Errorf("candidate is neither tokens nor an error object: %w", err)
		}
		if reply.Error == "" {
			return nil, "", fmt.Errorf("error object without a message")
		}
		return nil, reply.Error, nil
	}
	tokens, err := parseTokenCandidate(cleaned)
	if err != nil {
		return nil, "", err
	}
	return tokens, "", nil
}

func marshalTokens(tokens []token.Token) string {
	wire := make([]wireToken, len(tokens))
	for i, t := range tokens {
		wire[i] = wireToken{Kind: t.Kind.String(), Text: t.Text, Line: t.Line}
	}
	data, _ := json.Marshal(wire)
	return string(data)
}

// renderTokens lays the stream out for the code-generation prompt:
// one source line per line, lexemes joined by spaces.
func renderTokens(tokens []token.Token) string {
	var sb strings.Builder
	line := 0
	for i, t := range tokens {
		if t.Kind == token.EOF {
			continue
		}
		switch {
		case i == 0:
			line = t.Line
		case t.Line != line:
			sb.WriteByte('\n')
			line = t.Line
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// stripFences drops a surrounding markdown code fence if the backend ignored
// the output rules.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
