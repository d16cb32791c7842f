package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "config flags among command flags",
			args: []string{"cmd", "-mode", "report", "-db", "j.db", "-year", "2024", "-out", "/tmp/x",
				"-z", "UTC", "-l", "en", "-a", "srv:1", "-token", "t", "-timeout", "5", "-v", "debug"},
			expected: &Config{
				DatabasePath:       "j.db",
				OutputDir:          "/tmp/x",
				Timezone:           "UTC",
				Locale:             "en",
				ServerEndpointAddr: "srv:1",
				AccessToken:        "t",
				RequestTimeout:     5 * time.Second,
				LogLevel:           "debug",
			},
		},
		{name: "incorrect timeout", args: []string{"cmd", "-timeout", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
