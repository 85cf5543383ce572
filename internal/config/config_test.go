package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("PLANNER_PORT", "9090")
	t.Setenv("PLANNER_STORE_DRIVER", " Redis ")
	t.Setenv("PLANNER_AI_PROVIDER", "OpenAI")
	t.Setenv("PLANNER_OPENAI_API_KEY", "sk-test")
	t.Setenv("PLANNER_AI_TIMEOUT", "15s")
	t.Setenv("PLANNER_ALLOWED_ORIGINS", "http://localhost:5173,https://planner.example.com")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr())
	assert.Equal(t, StoreRedis, cfg.StoreDriver)
	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, 15*time.Second, cfg.AITimeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://planner.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "planner:", cfg.RedisPrefix)
	assert.Equal(t, 5242880, cfg.StorageQuotaBytes)
}

func TestResolveDefaults(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
		check   func(t *testing.T, c Config)
	}{
		{
			name: "blank enums fall back",
			cfg:  Config{AITimeout: -time.Second, StorageQuotaBytes: -1},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, StoreMemory, c.StoreDriver)
				assert.Equal(t, ProviderGemini, c.AIProvider)
				assert.Equal(t, 60*time.Second, c.AITimeout)
				assert.Equal(t, 0, c.StorageQuotaBytes)
			},
		},
		{
			name:    "postgres needs a url",
			cfg:     Config{StoreDriver: "postgres"},
			wantErr: "POSTGRES_URL",
		},
		{
			name:    "unknown driver",
			cfg:     Config{StoreDriver: "sqlite"},
			wantErr: "unsupported STORE_DRIVER",
		},
		{
			name:    "unknown provider",
			cfg:     Config{AIProvider: "claude"},
			wantErr: "unsupported AI_PROVIDER",
		},
		{
			name: "gemini key selected by default",
			cfg:  Config{GeminiAPIKey: "g", OpenAIAPIKey: "o"},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "g", c.APIKey())
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := cfg.ResolveDefaults()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestNewForTestingIsValid(t *testing.T) {
	cfg := NewForTesting()
	require.NoError(t, cfg.ResolveDefaults())
	assert.Empty(t, cfg.APIKey())
}
