package application

import (
	"encoding/json"
	"strings"
)

// ParseJSONStringToPlainText unwraps a payload that is a single JSON string
// literal into its plain text. Inputs that do not look like a quoted literal,
// or fail to decode as one, are returned unchanged.
func ParseJSONStringToPlainText(data string) string {
	if len(data) < 2 || !strings.HasPrefix(data, `"`) || !strings.HasSuffix(data, `"`) {
		return data
	}
	var plain string
	if err := json.Unmarshal([]byte(data), &plain); err != nil {
		return data
	}
	return plain
}
