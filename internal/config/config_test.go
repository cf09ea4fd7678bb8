package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "STORE_DRIVER", "SESSION_DRIVER", "SESSION_SECRET", "SESSION_TTL",
		"INFERENCE_URL", "INFERENCE_TIMEOUT", "INFERENCE_MAX_ATTEMPTS",
		"PREDICT_TRUST_BODY_USERNAME", "EVENTS_DRIVER", "OTEL_ENABLED", "SESSION_COOKIE_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "3000", cfg.App.Port, "empty values fall back")
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Session.Driver)
	assert.Equal(t, "local", cfg.Events.Driver)
	assert.Equal(t, "http://127.0.0.1:5000/predict", cfg.Inference.URL)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
	assert.Equal(t, 10*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, 2, cfg.Inference.MaxAttempts)
	assert.False(t, cfg.App.TrustBodyUsername)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "sid", cfg.Session.CookieName)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("SESSION_DRIVER", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("INFERENCE_URL", "http://model:5000/predict")
	t.Setenv("INFERENCE_TIMEOUT", "3s")
	t.Setenv("INFERENCE_MAX_ATTEMPTS", "1")
	t.Setenv("PREDICT_TRUST_BODY_USERNAME", "true")
	t.Setenv("EVENTS_DRIVER", "nats")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Session.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, "http://model:5000/predict", cfg.Inference.URL)
	assert.Equal(t, 3*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, 1, cfg.Inference.MaxAttempts)
	assert.True(t, cfg.App.TrustBodyUsername)
	assert.Equal(t, "nats", cfg.Events.Driver)
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("INFERENCE_TIMEOUT", "soon")
	t.Setenv("INFERENCE_MAX_ATTEMPTS", "many")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, 2, cfg.Inference.MaxAttempts)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestValidateSessionSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr error
	}{
		{name: "development keeps default", env: "development", secret: DefaultSessionSecret},
		{name: "production with default", env: "production", secret: DefaultSessionSecret, wantErr: ErrDefaultSessionSecret},
		{name: "production with own secret", env: "production", secret: "s3cr3t-value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", tt.env)
			t.Setenv("SESSION_SECRET", tt.secret)

			err := FromEnv().Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
