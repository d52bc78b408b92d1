package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// flagKeys are the categories the model is asked to fill in.
var flagKeys = []string{
	"auto_renewal",
	"termination_fees",
	"payment_terms",
	"compliance_gaps",
	"exclusivity_clauses",
}

// buildPrompt constructs the risk-analysis prompt for one contract.
func buildPrompt(contract string) string {
	keys := ""
	for _, k := range flagKeys {
		keys += "- " + k + "\n"
	}

	return fmt.Sprintf(`You are a contract risk analyzer. Identify red flags in the following vendor contract text in plain English:
1. Auto-renewal clauses
2. Termination fees
3. Payment terms longer than 30 days
4. Compliance or legal risks
5. Exclusivity or lock-in

Return them as a JSON object under keys:
%s
Contract:
%s`, keys, contract)
}

// promptWindow returns at most maxChars characters from the start of text.
//
// The recursive splitter cuts on paragraph, line and word boundaries, so the
// model sees whole sentences instead of a clause chopped mid-word. A single
// unbroken run longer than maxChars still gets a hard cut.
func promptWindow(text string, maxChars int) string {
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(maxChars),
		textsplitter.WithChunkOverlap(0),
	)
	chunks, err := splitter.SplitText(text)
	if err == nil && len(chunks) > 0 && utf8.RuneCountInString(chunks[0]) <= maxChars {
		return chunks[0]
	}
	return TruncateRunes(text, maxChars)
}

// TruncateRunes cuts s to at most n characters without splitting a UTF-8 sequence.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// parseFlags extracts a JSON object from model output.
// Falls back to {"raw": content} and reports false when none is found.
func parseFlags(content string) ([]byte, bool) {
	if obj, ok := compactObject([]byte(content)); ok {
		return obj, true
	}

	// Models sometimes wrap the JSON in markdown fences or prose.
	// Look for the first balanced { ... } block.
	start, depth := -1, 0
	for i, c := range content {
		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				if obj, ok := compactObject([]byte(content[start : i+1])); ok {
					return obj, true
				}
				start = -1
			}
		}
	}

	raw, _ := json.Marshal(map[string]string{"raw": content})
	return raw, false
}

// compactObject returns data compacted when it is a single JSON object.
func compactObject(data []byte) ([]byte, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
