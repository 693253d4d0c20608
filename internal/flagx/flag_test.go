package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-e", "https://dav.example.com", "-x", "1"},
			allowed: []string{"-e"},
			want:    []string{"-e", "https://dav.example.com"},
		},
		{
			name:    "equals form",
			args:    []string{"--endpoint=https://dav.example.com", "--other=1"},
			allowed: []string{"--endpoint"},
			want:    []string{"--endpoint=https://dav.example.com"},
		},
		{
			name:    "flag without value",
			args:    []string{"-v", "-e", "addr"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "b"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
