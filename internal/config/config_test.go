package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_CONN", "host=localhost dbname=club sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CLUB_EMAIL", "club@example.com")
}

func TestNewConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 6*time.Hour, cfg.TokenTTL)
	assert.Equal(t, EmailProviderSMTP, cfg.EmailProvider)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, "465", cfg.SMTPPort)
	assert.True(t, cfg.AutoMigrate)
}

func TestNewConfig_MissingJWTSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewConfig_MissingDBConn(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_CONN", "")
	t.Setenv("DB_HOST", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_CONN")
}

func TestNewConfig_DiscreteDBVariables(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_CONN", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "club")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "clubdb")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=club password=pw dbname=clubdb sslmode=disable", cfg.DBConn)
}

func TestNewConfig_MailgunRequiresCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMAIL_PROVIDER", EmailProviderMailgun)

	_, err := NewConfig()
	require.Error(t, err)

	t.Setenv("MAILGUN_DOMAIN", "mg.example.com")
	t.Setenv("MAILGUN_API_KEY", "key")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, EmailProviderMailgun, cfg.EmailProvider)
}

func TestNewConfig_UnknownProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMAIL_PROVIDER", "pigeon")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewConfig_MalformedValues(t *testing.T) {
	cases := map[string]string{
		"TOKEN_TTL":    "6hours",
		"AUTO_MIGRATE": "sometimes",
		"LOG_LEVEL":    "chatty",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, value)

			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestNewConfig_ParsesValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "debug", cfg.LogLevel)
}
