package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONExpr = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedExpr     = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// extractObject isolates the JSON payload from a model answer: a ```json
// fence wins, then any fence, then the first-to-last-brace slice.
func extractObject(answer string) string {
	answer = strings.TrimSpace(answer)

	if strings.Contains(answer, "```json") {
		if match := fencedJSONExpr.FindStringSubmatch(answer); match != nil {
			return strings.TrimSpace(match[1])
		}
		return answer
	}

	if strings.Contains(answer, "```") {
		if match := fencedExpr.FindStringSubmatch(answer); match != nil {
			return strings.TrimSpace(match[1])
		}
		return answer
	}

	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start >= 0 && end > start {
		return answer[start : end+1]
	}
	return answer
}

// decodeLoose parses strictly first, then once more after deleting C0/C1
// control characters. The repair pass can decode payloads a strict parser
// rejects, and may therefore yield different string values than the model
// intended; repair failures surface as parse errors, they are never
// swallowed.
func decodeLoose(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	repaired := stripControlChars(raw)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("parse model answer: %w", err)
	}
	return nil
}

func stripControlChars(raw string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, raw)
}
