package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSONRe matches a JSON object wrapped in a Markdown code fence,
// optionally tagged "json". Models ignore the no-fences directive often
// enough that the lenient decoder has to handle it.
var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// DecodeReply decodes the assistant's message content into a generic JSON
// object.
//
// In strict mode the content must itself be a bare JSON object; any
// surrounding prose or code fence is a failure. In lenient mode a bare
// object is tried first, then an object inside a code fence, then the
// outermost brace-delimited span of free text.
func DecodeReply(content, mode string) (map[string]any, error) {
	const op = "DecodeReply"

	obj, err := decodeObject(content)
	if err == nil {
		return obj, nil
	}
	if mode == "strict" {
		return nil, NewExtractionError(op, ErrMalformedReply, truncateForLog(content))
	}

	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		if obj, err := decodeObject(m[1]); err == nil {
			return obj, nil
		}
	}

	// Last resort: the outermost {...} span of the prose.
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		if obj, err := decodeObject(content[start : end+1]); err == nil {
			return obj, nil
		}
	}

	return nil, NewExtractionError(op, ErrMalformedReply, truncateForLog(content))
}

// decodeObject unmarshals s and requires the result to be a JSON object;
// arrays and scalars are rejected.
func decodeObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrMalformedReply
	}
	return obj, nil
}

func truncateForLog(s string) string {
	const max = 256
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
