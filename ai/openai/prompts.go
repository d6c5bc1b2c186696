package openai

import "fmt"

const locationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "found": {
      "type": "boolean"
    },
    "start": {
      "type": "integer",
      "minimum": 0
    },
    "end": {
      "type": "integer",
      "minimum": 0
    }
  },
  "required": ["found"],
  "additionalProperties": false
}`

const locationPromptTemplate = `You locate a passage of text inside a larger window of text. The passage
comes from an earlier version of a document; the window comes from a rewritten
version, so wording may differ. Find the region of the window that corresponds
to the passage, even if it has been paraphrased.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "start" and "end" are 0-based character offsets into the WINDOW text, with start < end.
- Offsets must cover the whole corresponding region, not just its first words.
- If no region of the window corresponds to the passage, return {"found": false}.
- Never guess: when in doubt, return {"found": false}.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Window: "Intro. The fast brown fox leaps over the lazy dog. Outro."
Passage: "The quick brown fox jumps over the lazy dog"
Output:
{"found": true, "start": 7, "end": 50}

Example (no correspondence):
Window: "A completely unrelated paragraph about sailing."
Passage: "The quick brown fox jumps over the lazy dog"
Output:
{"found": false}`

// buildSystemPrompt renders the chunk-location system prompt.
func buildSystemPrompt() string {
	return fmt.Sprintf(locationPromptTemplate, locationResponseSchema)
}

// buildUserPrompt renders the window and passage for a single location request.
func buildUserPrompt(chunkText, windowText string) string {
	return fmt.Sprintf("WINDOW:\n%s\n\nPASSAGE:\n%s", windowText, chunkText)
}
