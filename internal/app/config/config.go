package config

import (
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			URI:    utils.GetEnvString("MONGO_URI", ""),
			DbName: utils.GetEnvString("MONGODB_DB_NAME", "billing_e2e"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", ""),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "info"),
			Encoding:            utils.GetEnvString("LOGGER_ENCODING", "json"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:           utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:           utils.GetEnvString("RABBITMQ_HOST", ""),
			Username:       utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password:       utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
			RunEventsQueue: utils.GetEnvString("RABBITMQ_RUN_EVENTS_QUEUE", "billing_e2e_run_events"),
		},
		Minio: Minio{
			Endpoint: utils.GetEnvString("MINIO_ENDPOINT", ""),
			Username: utils.GetEnvString("MINIO_USERNAME", ""),
			Password: utils.GetEnvString("MINIO_PASSWORD", ""),
			Bucket:   utils.GetEnvString("MINIO_BUCKET", "billing-e2e-artifacts"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1.0"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api/v1"),
			APIKey:                   utils.GetEnvString("APP_API_KEY", ""),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RunTimeoutInMinutes:      utils.GetEnvInt("APP_RUN_TIMEOUT_IN_MINUTES", 30),
			Workers:                  utils.GetEnvInt("E2E_WORKERS", 2),
			ArtifactDir:              utils.GetEnvString("E2E_ARTIFACT_DIR", "artifacts"),
			Suites:                   utils.GetEnvStringSlice("E2E_SUITES", nil),
		},
		OpenMRS: OpenMRS{
			RestUrl:                 utils.GetEnvString("OPENMRS_REST_URL", "http://localhost/openmrs/ws/rest/v1/"),
			SpaUrl:                  utils.GetEnvString("OPENMRS_SPA_URL", "http://localhost/openmrs/spa/"),
			Username:                utils.GetEnvString("OPENMRS_USERNAME", "admin"),
			Password:                utils.GetEnvString("OPENMRS_PASSWORD", "Admin123"),
			DefaultLocationUUID:     utils.GetEnvString("E2E_LOGIN_DEFAULT_LOCATION_UUID", "44c3efb0-2583-4c80-a79e-1f756a03c0a1"),
			TestServiceUUID:         utils.GetEnvString("E2E_TEST_SERVICE_UUID", ""),
			BillingModulePrefix:     utils.GetEnvString("OPENMRS_BILLING_MODULE", constvars.BillingModuleBilling),
			IdentifierSourceUUID:    utils.GetEnvString("OPENMRS_IDENTIFIER_SOURCE_UUID", constvars.DefaultIdentifierSourceUUID),
			IdentifierTypeUUID:      utils.GetEnvString("OPENMRS_IDENTIFIER_TYPE_UUID", constvars.DefaultIdentifierTypeUUID),
			RequestsPerSecond:       utils.GetEnvFloat("OPENMRS_REQUESTS_PER_SECOND", 10),
			RequestTimeoutInSeconds: utils.GetEnvInt("OPENMRS_REQUEST_TIMEOUT_IN_SECONDS", 30),
		},
		Browser: Browser{
			Headless:           utils.GetEnvBool("E2E_HEADLESS", true),
			SlowMoInMs:         utils.GetEnvFloat("E2E_SLOW_MO_IN_MS", 0),
			DefaultTimeoutInMs: utils.GetEnvFloat("E2E_DEFAULT_TIMEOUT_IN_MS", constvars.DefaultUITimeoutInMs),
		},
		Fixture: Fixture{
			DefaultCashPrice:        utils.GetEnvFloat("E2E_DEFAULT_CASH_PRICE", constvars.DefaultServicePrice),
			PaymentMode:             utils.GetEnvString("E2E_PAYMENT_MODE", constvars.PaymentModeCash),
			PriceLockTTLInSeconds:   utils.GetEnvInt("E2E_PRICE_LOCK_TTL_IN_SECONDS", 30),
			SuiteLockTTLInMinutes:   utils.GetEnvInt("E2E_SUITE_LOCK_TTL_IN_MINUTES", 30),
			PollIntervalInMs:        utils.GetEnvInt("E2E_POLL_INTERVAL_IN_MS", 250),
			StatusPollTimeoutInSecs: utils.GetEnvInt("E2E_STATUS_POLL_TIMEOUT_IN_SECS", 10),
		},
	}
}

// Validate checks the sections every command needs. The test service uuid
// is checked later by the suites that use it.
func (c *InternalConfig) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}

// TestService returns the configured billable service uuid or a fixture error
// naming the missing variable.
func (c *InternalConfig) TestService() (string, error) {
	if c.OpenMRS.TestServiceUUID == "" {
		return "", exceptions.ErrMissingConfiguration("E2E_TEST_SERVICE_UUID")
	}
	return c.OpenMRS.TestServiceUUID, nil
}
