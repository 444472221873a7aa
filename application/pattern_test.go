package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		msg     Message
		want    string
	}{
		{
			name:    "no placeholders",
			pattern: "my-topic",
			msg:     NewMessage("{}", nil),
			want:    "my-topic",
		},
		{
			name:    "metadata placeholder",
			pattern: "sensor/${deviceName}/data",
			msg:     NewMessage("{}", map[string]string{"deviceName": "thermo-1"}),
			want:    "sensor/thermo-1/data",
		},
		{
			name:    "multiple metadata placeholders",
			pattern: "${deviceType}/${deviceName}",
			msg:     NewMessage("{}", map[string]string{"deviceType": "thermostat", "deviceName": "thermo-1"}),
			want:    "thermostat/thermo-1",
		},
		{
			name:    "data placeholder",
			pattern: "sensor/$[serialNumber]",
			msg:     NewMessage(`{"serialNumber":"SN-001"}`, nil),
			want:    "sensor/SN-001",
		},
		{
			name:    "numeric data placeholder",
			pattern: "sensor/$[channel]",
			msg:     NewMessage(`{"channel":7}`, nil),
			want:    "sensor/7",
		},
		{
			name:    "unresolved metadata placeholder stays verbatim",
			pattern: "sensor/${missing}",
			msg:     NewMessage("{}", nil),
			want:    "sensor/${missing}",
		},
		{
			name:    "unresolved data placeholder stays verbatim",
			pattern: "sensor/$[missing]",
			msg:     NewMessage(`{"serialNumber":"SN-001"}`, nil),
			want:    "sensor/$[missing]",
		},
		{
			name:    "data placeholder with non-json payload stays verbatim",
			pattern: "sensor/$[serialNumber]",
			msg:     NewMessage("plain text", nil),
			want:    "sensor/$[serialNumber]",
		},
		{
			name:    "mixed placeholders",
			pattern: "${deviceName}/$[channel]",
			msg:     NewMessage(`{"channel":2}`, map[string]string{"deviceName": "thermo-1"}),
			want:    "thermo-1/2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePattern(tt.pattern, tt.msg))
		})
	}
}
