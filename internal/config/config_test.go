package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "/uploads", cfg.UploadBaseURL)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes())
}

func TestLoad_Entorno(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://dragonya.app/ , *,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.EqualValues(t, 2<<20, cfg.MaxUploadBytes())
	assert.Equal(t, []string{"https://dragonya.app", "*"}, cfg.AllowedOrigins())
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_Expiracion(t *testing.T) {
	cfg := &Config{Env: "development", JWTExpirationHours: 0}
	assert.Error(t, cfg.Validate())

	cfg.JWTExpirationHours = 1
	assert.NoError(t, cfg.Validate())
}
