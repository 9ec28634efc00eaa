package config_test

import (
	"testing"
	"time"

	"hr-dashboard/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PORT", "")
		t.Setenv("OUTBOX_POLL_INTERVAL", "")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
		assert.Equal(t, "hr.notifications.v1", cfg.Kafka.NotificationTopic)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := config.Load()

		assert.Error(t, err)
	})

	t.Run("invalid poll interval", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("OUTBOX_POLL_INTERVAL", "often")

		_, err := config.Load()

		assert.ErrorContains(t, err, "OUTBOX_POLL_INTERVAL")
	})
}
