package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("CHECKOUT_TEST_VALUE", "configured")

	assert.Equal(t, "configured", GetEnv("CHECKOUT_TEST_VALUE", "default"))
	assert.Equal(t, "default", GetEnv("CHECKOUT_TEST_MISSING", "default"))
}

func TestGetEnv_EmptyUsesDefault(t *testing.T) {
	t.Setenv("CHECKOUT_TEST_VALUE", "")

	assert.Equal(t, "default", GetEnv("CHECKOUT_TEST_VALUE", "default"))
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", 5 * time.Second},
		{"valid", "250ms", 250 * time.Millisecond},
		{"invalid", "soon", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CHECKOUT_TEST_TIMEOUT", tt.value)

			assert.Equal(t, tt.want, GetEnvDuration("CHECKOUT_TEST_TIMEOUT", 5*time.Second))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CHECKOUT_TEST_INT", "25")
	assert.Equal(t, 25, GetEnvInt("CHECKOUT_TEST_INT", 10))

	t.Setenv("CHECKOUT_TEST_INT", "many")
	assert.Equal(t, 10, GetEnvInt("CHECKOUT_TEST_INT", 10))
}
