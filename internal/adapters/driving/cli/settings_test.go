package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	for in, want := range map[string]string{
		"":                            "****",
		"abc123":                      "****",
		"12345678":                    "****",
		"sk-1234567890abcdef":         "sk-1...cdef",
		"sk-ant-REDACTED": "sk-a...klmn",
	} {
		assert.Equal(t, want, maskAPIKey(in), "key %q", in)
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 2},
		{"   ", 2},
		{"abc", 2},
		{"0", 2},
		{"-1", 2},
		{"4", 2},
		{"1", 1},
		{"3", 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.want, parseChoice(tt.input, 3, 2))
		})
	}
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	rootCmd.SetIn(strings.NewReader(input))
	return execute(t, args...)
}

func TestSettingsEmbeddingCmd_CloudProvider(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := executeWithInput(t, "3\n\nsk-abcdefghijkl\n", "settings", "embedding")

	require.NoError(t, err)
	got := mocks.settings.settings.Embedding
	assert.Equal(t, domain.AIProviderOpenAI, got.Provider)
	assert.Equal(t, domain.DefaultEmbeddingModels()[domain.AIProviderOpenAI], got.Model)
	assert.Equal(t, "sk-abcdefghijkl", got.APIKey)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Contains(t, out, "embedding provider configured: OpenAI (cloud)")
}

func TestSettingsLLMCmd(t *testing.T) {
	t.Run("local provider with custom model", func(t *testing.T) {
		mocks, cleanup := setupTestServicesWithMocks()
		defer cleanup()

		_, err := executeWithInput(t, "1\nllama3.1\n", "settings", "llm")

		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOllama, mocks.settings.settings.LLM.Provider)
		assert.Equal(t, "llama3.1", mocks.settings.settings.LLM.Model)
		assert.Empty(t, mocks.settings.settings.LLM.APIKey)
	})

	t.Run("cloud provider without key", func(t *testing.T) {
		mocks, cleanup := setupTestServicesWithMocks()
		defer cleanup()

		_, err := executeWithInput(t, "3\n\n\n", "settings", "llm")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "anthropic requires an API key")
		assert.Empty(t, mocks.settings.settings.LLM.Provider)
	})
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Provider: (none, fallback template is used)")
	assert.Contains(t, out, "Chunk size: 1000")
	assert.Contains(t, out, "Overlap: 200")
	assert.Contains(t, out, "Threshold: 0.7")
	assert.Contains(t, out, "Store: sqlite")
	assert.Contains(t, out, "Cache: lru")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_MasksAPIKeys(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()
	mocks.settings.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
}

func TestSettingsShowCmd_ValidationWarning(t *testing.T) {
	mocks, cleanup := setupTestServicesWithMocks()
	defer cleanup()
	mocks.settings.validErr = fmt.Errorf("overlap must be smaller than chunk size")

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: overlap must be smaller than chunk size")
}

func TestSettingsSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		setErr  error
		wantOut string
		wantErr string
	}{
		{
			name:    "plain value",
			args:    []string{"search.threshold", "0.8"},
			wantOut: "search.threshold = 0.8",
		},
		{
			name:    "api key is masked in output",
			args:    []string{"llm.api_key", "sk-abcdefghijklmnop"},
			wantOut: "llm.api_key = sk-a...mnop",
		},
		{
			name:    "missing value",
			args:    []string{"search.limit"},
			wantErr: "missing value for search.limit",
		},
		{
			name:    "rejected key lists valid keys",
			args:    []string{"search.colour", "red"},
			setErr:  fmt.Errorf("unknown setting: %w", domain.ErrInvalidInput),
			wantOut: "Valid keys: embedding.provider",
			wantErr: "failed to set search.colour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks, cleanup := setupTestServicesWithMocks()
			defer cleanup()
			mocks.settings.setErr = tt.setErr

			out, err := execute(t, append([]string{"settings", "set"}, tt.args...)...)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.args[1], mocks.settings.set[tt.args[0]])
			}
			if tt.wantOut != "" {
				assert.Contains(t, out, tt.wantOut)
			}
		})
	}
}

func TestSettingsKeysCmd(t *testing.T) {
	out, err := execute(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "search.threshold")
	assert.Contains(t, out, "CONTENTRAG_SEARCH_THRESHOLD")
	assert.Contains(t, out, "CONTENTRAG_BLOB_ENDPOINT")
}

func TestSettingsCmd_NoService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := execute(t, "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsSections(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, Model: "text-embedding-3-small", Dimensions: 1536}
	s.Cache.Backend = domain.CacheBackendRedis
	s.Cache.RedisAddr = "localhost:6379"
	s.Blob = domain.BlobSettings{Backend: domain.BlobBackendS3, Bucket: "docs", Region: "eu-west-1"}

	rows := map[string]map[string]string{}
	for _, sec := range settingsSections(&s) {
		rows[sec.title] = map[string]string{}
		for _, r := range sec.rows {
			rows[sec.title][r[0]] = r[1]
		}
	}

	assert.Equal(t, "(not set)", rows["Embedding"]["API Key"])
	assert.Equal(t, "not configured", rows["Embedding"]["Status"])
	assert.NotContains(t, rows["Embedding"], "Base URL")
	assert.Equal(t, "localhost:6379", rows["Storage"]["Redis"])
	assert.NotContains(t, rows["Storage"], "Cache size")
	assert.Equal(t, "docs (eu-west-1)", rows["Storage"]["Bucket"])
	assert.NotContains(t, rows["Storage"], "Endpoint")
}
