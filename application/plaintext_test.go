package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJSONStringToPlainText(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "quoted literal", data: `"hello"`, want: "hello"},
		{name: "quoted with escapes", data: `"he said \"hi\""`, want: `he said "hi"`},
		{name: "quoted with newline escape", data: `"line1\nline2"`, want: "line1\nline2"},
		{name: "empty literal", data: `""`, want: ""},
		{name: "plain text unchanged", data: "hello", want: "hello"},
		{name: "json object unchanged", data: `{"temperature":21.4}`, want: `{"temperature":21.4}`},
		{name: "empty input", data: "", want: ""},
		{name: "single quote char", data: `"`, want: `"`},
		{name: "malformed literal unchanged", data: `"unterminated\"`, want: `"unterminated\"`},
		{name: "quoted but trailing garbage", data: `"a" "b"`, want: `"a" "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseJSONStringToPlainText(tt.data))
		})
	}
}

func TestParseJSONStringToPlainText_Idempotent(t *testing.T) {
	plain := ParseJSONStringToPlainText(`"hello"`)
	assert.Equal(t, "hello", plain)
	assert.Equal(t, plain, ParseJSONStringToPlainText(plain))
}
