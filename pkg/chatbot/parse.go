package chatbot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Reply is the tagged result of normalizing an inference response. Parsed is
// false when no known shape matched; Shape records which variant matched for
// logging.
type Reply struct {
	Parsed bool
	Text   string
	Shape  string
}

// Object keys the hosted backends have been observed answering with.
var replyKeys = []string{"reply", "response", "text", "output", "answer", "message"}

// ParseReply normalizes the heterogeneous inference response body into a
// plain reply string. Tried in order: generateContent candidates, known
// object keys, a list-wrapped data shape, then raw string coercion.
func ParseReply(raw []byte) Reply {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Not JSON at all: the body itself is the reply text.
		if text := strings.TrimSpace(string(raw)); text != "" {
			return Reply{Parsed: true, Text: text, Shape: "raw-text"}
		}
		return Reply{Shape: "empty"}
	}
	return parseValue(decoded)
}

func parseValue(v interface{}) Reply {
	switch value := v.(type) {
	case string:
		if strings.TrimSpace(value) != "" {
			return Reply{Parsed: true, Text: value, Shape: "string"}
		}
	case float64, bool:
		return Reply{Parsed: true, Text: fmt.Sprint(value), Shape: "scalar"}
	case map[string]interface{}:
		if text := candidateText(value); text != "" {
			return Reply{Parsed: true, Text: text, Shape: "candidates"}
		}
		for _, key := range replyKeys {
			if s, ok := value[key].(string); ok && strings.TrimSpace(s) != "" {
				return Reply{Parsed: true, Text: s, Shape: "object-key:" + key}
			}
		}
		if data, ok := value["data"].([]interface{}); ok && len(data) > 0 {
			if inner := parseValue(data[0]); inner.Parsed {
				inner.Shape = "data-list>" + inner.Shape
				return inner
			}
		}
	case []interface{}:
		if len(value) > 0 {
			if inner := parseValue(value[0]); inner.Parsed {
				inner.Shape = "list>" + inner.Shape
				return inner
			}
		}
	}
	return Reply{Shape: "unparsed"}
}

// candidateText walks the generateContent shape:
// candidates[0].content.parts[*].text
func candidateText(obj map[string]interface{}) string {
	candidates, ok := obj["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return ""
	}
	first, ok := candidates[0].(map[string]interface{})
	if !ok {
		return ""
	}
	content, ok := first["content"].(map[string]interface{})
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]interface{})
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, p := range parts {
		if part, ok := p.(map[string]interface{}); ok {
			if text, ok := part["text"].(string); ok {
				sb.WriteString(text)
			}
		}
	}
	return sb.String()
}
