package openai

import (
	"fmt"
	"strings"
)

const entityResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string"
          },
          "type": {
            "type": "string"
          },
          "score": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["name", "type", "score"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const entityPromptTemplate = `Extract the named entities mentioned in the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Type field must match exactly one of the listed values: %s.
- Score is a confidence from 0.0 (uncertain) to 1.0 (certain) that the span names a real entity of the given type.
- Include only entities explicitly named in the text. Do not hallucinate.
- Preserve the entity's surface form (capitalization, punctuation) as it appears in the text.
- If no entities can be identified, return "entities": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Kubernetes was originally developed by Google before being donated to the CNCF."
Output:
{
  "entities": [
    {"name":"Kubernetes","type":"technology","score":0.95},
    {"name":"Google","type":"organization","score":0.9},
    {"name":"CNCF","type":"organization","score":0.85}
  ]
}`

// buildEntitySystemPrompt creates the system prompt with entity type
// labels embedded.
func buildEntitySystemPrompt(entityTypes []string) string {
	return fmt.Sprintf(entityPromptTemplate, entityResponseSchema, strings.Join(entityTypes, ", "))
}
