package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		want    func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "defaults",
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, defaultServerAddress, cfg.ServerAddr)
				assert.Equal(t, defaultLogLevel, cfg.LogLevel)
				assert.Equal(t, defaultRateLimitRequests, cfg.RateLimitRequests)
				assert.Equal(t, defaultRateLimitWindow, cfg.RateLimitWindow)
			},
		},
		{
			name: "flags",
			args: []string{"-a", ":9090", "-d", "postgres://flag", "-rate-limit", "5"},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9090", cfg.ServerAddr)
				assert.Equal(t, "postgres://flag", cfg.DatabaseDSN)
				assert.Equal(t, 5, cfg.RateLimitRequests)
			},
		},
		{
			name: "env_overrides_flags",
			args: []string{"-a", ":9090"},
			env: map[string]string{
				"RUN_ADDRESS":         ":7070",
				"PLAID_SECRET":        "secret",
				"PROMO_CACHE_TTL":     "30s",
				"RATE_LIMIT_REQUESTS": "10",
			},
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":7070", cfg.ServerAddr)
				assert.Equal(t, "secret", cfg.PlaidSecret)
				assert.Equal(t, 30*time.Second, cfg.PromoCacheTTL)
				assert.Equal(t, 10, cfg.RateLimitRequests)
			},
		},
		{
			name:    "bad_duration",
			env:     map[string]string{"RATE_LIMIT_WINDOW": "soon"},
			wantErr: true,
		},
		{
			name:    "bad_rate_limit",
			env:     map[string]string{"RATE_LIMIT_REQUESTS": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet(tt.name, flag.ContinueOnError)
			cfg, err := load(fs, tt.args, envFrom(tt.env))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.want(t, cfg)
		})
	}
}
