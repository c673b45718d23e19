package application

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedBlockPattern matches ```json ... ``` and unlabeled ``` ... ``` blocks.
var fencedBlockPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractJSON pulls a JSON object out of free-form model output. It tries, in order,
// every fenced code block, the whole text, and the span from the first '{' to the
// last '}'. Only JSON objects are accepted.
func ExtractJSON(text string) (map[string]any, bool) {
	for _, m := range fencedBlockPattern.FindAllStringSubmatch(text, -1) {
		if obj, ok := parseObject(strings.TrimSpace(m[1])); ok {
			return obj, true
		}
	}

	if obj, ok := parseObject(text); ok {
		return obj, true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if obj, ok := parseObject(text[start : end+1]); ok {
			return obj, true
		}
	}

	return nil, false
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
