package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_FORMAT", "LOG_LEVEL", "SUMMARY_INTERVAL"} {
		t.Setenv(k, "")
	}

	c, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "info", c.Log.Level)
	assert.Zero(t, c.Summary.Interval)
}

func TestLoadFromEnv(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(t *testing.T, c Config)
	}{
		{
			name: "json debug with interval",
			env:  map[string]string{"LOG_FORMAT": "json", "LOG_LEVEL": "DEBUG", "SUMMARY_INTERVAL": "5s"},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "json", c.Log.Format)
				lvl, err := c.SlogLevel()
				require.NoError(t, err)
				assert.Equal(t, slog.LevelDebug, lvl)
				assert.Equal(t, 5*time.Second, c.Summary.Interval)
			},
		},
		{
			name:    "bad format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "LOG_FORMAT",
		},
		{
			name:    "bad level",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad interval",
			env:     map[string]string{"SUMMARY_INTERVAL": "soon"},
			wantErr: "SUMMARY_INTERVAL",
		},
		{
			name:    "negative interval",
			env:     map[string]string{"SUMMARY_INTERVAL": "-1s"},
			wantErr: "SUMMARY_INTERVAL",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"APP_ENV", "LOG_FORMAT", "LOG_LEVEL", "SUMMARY_INTERVAL"} {
				t.Setenv(k, "")
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			c, err := LoadFromEnv()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}
