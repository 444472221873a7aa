package application

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	metadataPlaceholder = regexp.MustCompile(`\$\{([^}]+)\}`)
	dataPlaceholder     = regexp.MustCompile(`\$\[([^]]+)\]`)
)

// ResolvePattern substitutes message fields into a topic pattern: ${key}
// placeholders resolve from metadata, $[key] placeholders from top-level
// fields of a JSON object payload. Placeholders that cannot be resolved are
// left verbatim.
func ResolvePattern(pattern string, msg Message) string {
	topic := metadataPlaceholder.ReplaceAllStringFunc(pattern, func(ph string) string {
		if v, ok := msg.Metadata[ph[2:len(ph)-1]]; ok {
			return v
		}
		return ph
	})

	if !strings.Contains(topic, "$[") {
		return topic
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(msg.Data), &fields); err != nil {
		return topic
	}
	return dataPlaceholder.ReplaceAllStringFunc(topic, func(ph string) string {
		v, ok := fields[ph[2:len(ph)-1]]
		if !ok {
			return ph
		}
		if s, ok := v.(string); ok {
			return s
		}
		b, err := json.Marshal(v)
		if err != nil {
			return ph
		}
		return string(b)
	})
}
