package config

import (
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInternalConfig(t *testing.T) {
	t.Run("Defaults Are Valid", func(t *testing.T) {
		t.Setenv("OPENMRS_REST_URL", "http://localhost/openmrs/ws/rest/v1/")
		t.Setenv("OPENMRS_BILLING_MODULE", "cashier")
		t.Setenv("E2E_WORKERS", "4")

		cfg := NewInternalConfig()

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "cashier", cfg.OpenMRS.BillingModulePrefix)
		assert.Equal(t, 4, cfg.App.Workers)
		assert.Equal(t, 30.0, cfg.Fixture.DefaultCashPrice)
		assert.Equal(t, "Cash", cfg.Fixture.PaymentMode)
	})

	t.Run("Invalid Rest URL", func(t *testing.T) {
		t.Setenv("OPENMRS_REST_URL", "not a url")

		err := NewInternalConfig().Validate()

		assert.Error(t, err)
	})

	t.Run("Default Suites From Env", func(t *testing.T) {
		t.Setenv("E2E_SUITES", "billing-dashboard, ,process-bill-payment")

		cfg := NewInternalConfig()

		assert.Equal(t, []string{"billing-dashboard", "process-bill-payment"}, cfg.App.Suites)
	})

	t.Run("Missing Test Service", func(t *testing.T) {
		t.Setenv("E2E_TEST_SERVICE_UUID", "")

		_, err := NewInternalConfig().TestService()

		require.Error(t, err)
		assert.Equal(t, "E2E_TEST_SERVICE_UUID must be configured in .env file", exceptions.MessageOf(err))
		assert.Equal(t, exceptions.KindFixture, exceptions.KindOf(err))
	})
}

func TestDriverConfigEnabled(t *testing.T) {
	t.Run("Optional Drivers Disabled By Default", func(t *testing.T) {
		t.Setenv("REDIS_HOST", "")
		t.Setenv("MONGO_URI", "")
		t.Setenv("RABBITMQ_HOST", "")
		t.Setenv("MINIO_ENDPOINT", "")

		cfg := NewDriverConfig()

		assert.False(t, cfg.Redis.Enabled())
		assert.False(t, cfg.MongoDB.Enabled())
		assert.False(t, cfg.RabbitMQ.Enabled())
		assert.False(t, cfg.Minio.Enabled())
	})

	t.Run("Redis Enabled By Host", func(t *testing.T) {
		t.Setenv("REDIS_HOST", "redis")

		assert.True(t, NewDriverConfig().Redis.Enabled())
	})
}
