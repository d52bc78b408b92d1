package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv restores the previous value when the test ends.
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MAX_UPLOAD_MB", "50")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("PORT", "9090")
	t.Setenv("ANALYSIS_ATTEMPTS", "3")
	t.Setenv("CORS_ORIGIN", "http://a.test, http://b.test,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.AnalysisAttempts)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(cfg.MaxUploadMB)<<20, cfg.MaxUploadBytes())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "zero attempts",
			env:  map[string]string{"GIN_MODE": "debug", "ANALYSIS_ATTEMPTS": "0"},
		},
		{
			name: "release without api key",
			env:  map[string]string{"GIN_MODE": "release", "ANALYSIS_ATTEMPTS": "3", "OPENAI_API_KEY": ""},
		},
		{
			name: "unknown gin mode",
			env:  map[string]string{"GIN_MODE": "prod", "ANALYSIS_ATTEMPTS": "3"},
		},
		{
			name: "zero upload cap",
			env:  map[string]string{"GIN_MODE": "debug", "ANALYSIS_ATTEMPTS": "3", "MAX_UPLOAD_MB": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"http://localhost:8080", false},
		{"https://api.example.com/v1", false},
		{"localhost:8080", true},
		{"ftp://example.com", true},
		{"", true},
		{"http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			err := ValidateBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://flags.example.com")
	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "https://flags.example.com", cfg.APIBaseURL)

	t.Setenv("API_BASE_URL", "not a url")
	_, err = LoadClient()
	assert.Error(t, err)
}
