package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/oceanbase/jarvis-go/pkg/llm"
)

// DefaultExtractionPrompt asks the model for one stable fact or null.
const DefaultExtractionPrompt = `Extract long-term user memory from the text below.
Only extract stable preferences or facts.

Return STRICT JSON:
{
  "key": "...",
  "value": "..."
}

If nothing should be saved, return:
null`

// nullSentinel is the model's answer when there is nothing to extract.
const nullSentinel = "null"

// Extraction is the tagged result of fact extraction.
// Found is false when the model had nothing to extract or answered in an
// unexpected shape; Key and Value are set only when Found is true.
type Extraction struct {
	Found bool
	Key   string
	Value string
}

// NoFact is the empty extraction.
var NoFact = Extraction{}

// FactExtractor extracts a single key/value fact from user text using an LLM.
//
// Example usage:
//
//	extractor := NewFactExtractor(llmProvider)
//	ext, err := extractor.Extract(ctx, "My favorite color is blue")
//	if err == nil && ext.Found {
//	    // ext.Key == "favorite color", ext.Value == "blue"
//	}
type FactExtractor struct {
	// llm is the LLM provider for fact extraction.
	llm llm.Provider

	// customPrompt replaces DefaultExtractionPrompt when set.
	customPrompt string
}

// NewFactExtractor creates a new fact extractor with the default prompt.
func NewFactExtractor(provider llm.Provider) *FactExtractor {
	return &FactExtractor{llm: provider}
}

// NewFactExtractorWithPrompt creates a new fact extractor with a custom prompt.
func NewFactExtractorWithPrompt(provider llm.Provider, customPrompt string) *FactExtractor {
	return &FactExtractor{
		llm:          provider,
		customPrompt: customPrompt,
	}
}

// Extract asks the model for one stable fact in text.
//
// The call runs at temperature 0. A malformed answer yields NoFact with a nil
// error; only a failed model call returns an error.
func (e *FactExtractor) Extract(ctx context.Context, text string) (Extraction, error) {
	response, err := llm.Complete(ctx, e.llm, e.getSystemPrompt(), text, 0)
	if err != nil {
		return NoFact, fmt.Errorf("failed to extract fact: %w", err)
	}
	return ParseExtraction(response), nil
}

func (e *FactExtractor) getSystemPrompt() string {
	if e.customPrompt != "" {
		return e.customPrompt
	}
	return DefaultExtractionPrompt
}

type rawFact struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// ParseExtraction validates a model response.
//
// Accepted shapes are the literal null and a single JSON object with non-empty
// string "key" and "value" fields and nothing else. Anything else is NoFact.
func ParseExtraction(response string) Extraction {
	response = removeCodeBlocks(response)
	if response == "" || response == nullSentinel {
		return NoFact
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(response)))
	dec.DisallowUnknownFields()

	var raw rawFact
	if err := dec.Decode(&raw); err != nil {
		return NoFact
	}
	// Only whitespace may follow the object.
	if _, err := dec.Token(); err != io.EOF {
		return NoFact
	}
	if raw.Key == nil || raw.Value == nil {
		return NoFact
	}

	key := strings.TrimSpace(*raw.Key)
	value := strings.TrimSpace(*raw.Value)
	if key == "" || value == "" {
		return NoFact
	}

	return Extraction{Found: true, Key: key, Value: value}
}

// removeCodeBlocks strips ```json fences that models often wrap around JSON.
func removeCodeBlocks(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	return strings.TrimSpace(response)
}
