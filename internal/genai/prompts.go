package genai

import (
	"fmt"

	"polyc/internal/diag"
)

// Prompt templates for the AI-delegated phases. Exact wording is an
// implementation choice; the hard contract is the token schema and the
// "no fences, no commentary" output rules, which the delegate compiler
// validates on every candidate.

// TokenizePrompt asks the backend to tokenize source into the shared schema.
func TokenizePrompt(language, source string) string {
	return fmt.Sprintf(`You are a lexical analyzer for %s.

Tokenize the source below into a JSON array. Each element:
  {"kind": "keyword|ident|number|string|operator|punct", "text": "<lexeme>", "line": <1-based line>}

RULES:
1. Output ONLY the JSON array, no code fences, no commentary.
2. Preserve source order; do not merge or drop lexemes.
3. Whitespace and comments are not tokens.

SOURCE:
%s`, language, source)
}

// SyntaxPrompt asks the backend to parse-check a token stream and return the
// stream it actually accepted, in the same schema.
func SyntaxPrompt(language, tokensJSON string) string {
	return fmt.Sprintf(`You are a syntax analyzer for %s.

Verify that the token stream below forms a syntactically valid %s program.
If it is valid, return the token stream unchanged as a JSON array in the same
schema. If it is invalid, return a JSON object {"error": "<message>"}.

RULES:
1. Output ONLY JSON, no code fences, no commentary.

TOKENS:
%s`, language, language, tokensJSON)
}

// IRGenPrompt asks the backend for a runnable translation of the token
// stream in the target language.
func IRGenPrompt(language, tokensText string) string {
	return fmt.Sprintf(`You are a code generator targeting %s.

Emit a complete, runnable %s program equivalent to the token stream below.
The program must write its observable results to standard output.

RULES:
1. Output ONLY source code, no code fences, no commentary.
2. Do not add features the tokens do not express.

TOKENS:
%s`, language, language, tokensText)
}

// RepairPrompt builds the regeneration request used by the recovery loop:
// original source, failing phase and the diagnostic, corrected source back.
func RepairPrompt(language, source string, phase diag.Phase, message string) string {
	return fmt.Sprintf(`The following %s source failed the %s phase:

%s

DIAGNOSTIC:
%s

Produce a corrected version of the source that preserves the author's intent.

RULES:
1. Output ONLY the corrected source, no code fences, no commentary.
2. Change as little as possible.`, language, phase, source, message)
}
