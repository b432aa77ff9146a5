package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_SITE_URL", "https://nusadigital.my/")
	t.Setenv("BILLPLZ_SANDBOX", "true")
	t.Setenv("PROMO_CODE", "")
	t.Setenv("SMTP_PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://nusadigital.my", cfg.SiteURL)
	assert.True(t, cfg.BillplzSandbox)
	assert.Equal(t, "LAUNCH50", cfg.PromoCode)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadConfigSessionSecretHasNoDefault(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.SessionSecret)
	assert.ErrorIs(t, cfg.ValidateSessionSecret(), ErrInsecureSessionSecret)
}

func TestValidateSessionSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"published placeholder", "change-me-session-secret", true},
		{"too short", "short-secret", true},
		{"random", "9f2c41d07be84a6e93b5c1f0d2a7e6b48c3f5a19", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{SessionSecret: tt.secret}).ValidateSessionSecret()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsecureSessionSecret)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigInvalidSMTPPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("1"))
	assert.True(t, parseBool(" TRUE "))
	assert.False(t, parseBool("yes"))
	assert.False(t, parseBool(""))
}
