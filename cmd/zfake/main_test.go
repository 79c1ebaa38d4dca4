package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zarlcorp/zfake/internal/config"
)

func TestLogConfigSourceHonorsLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name   string
		level  string
		source string
		want   string
	}{
		{"debug with file", "debug", "/tmp/zfake.toml", `msg="loaded config" path=/tmp/zfake.toml`},
		{"debug without file", "debug", "", `msg="no config file, using defaults"`},
		{"info hides source", "info", "/tmp/zfake.toml", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.LogLevel = tt.level
			cfg.Source = tt.source

			var buf bytes.Buffer
			setupLogging(&buf, cfg)
			logConfigSource(cfg)

			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
