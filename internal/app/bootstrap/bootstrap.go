// Package bootstrap connects the configured drivers and wires the services
// shared by the runner API, the CLI and the browser test suite.
package bootstrap

import (
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	browserDriver "openmrs-billing-e2e/internal/app/drivers/browser"
	"openmrs-billing-e2e/internal/app/drivers/database"
	"openmrs-billing-e2e/internal/app/drivers/logger"
	"openmrs-billing-e2e/internal/app/drivers/messaging"
	storageDriver "openmrs-billing-e2e/internal/app/drivers/storage"
	"openmrs-billing-e2e/internal/app/pages"
	"openmrs-billing-e2e/internal/app/scenarios"
	"openmrs-billing-e2e/internal/app/services/core/runs"
	"openmrs-billing-e2e/internal/app/services/fixtures"
	"openmrs-billing-e2e/internal/app/services/openmrs"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"
	"openmrs-billing-e2e/internal/app/services/shared/locker"
	"openmrs-billing-e2e/internal/app/services/shared/redis"
	"openmrs-billing-e2e/internal/app/services/shared/runqueue"
	"openmrs-billing-e2e/internal/app/services/shared/storage"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Services is everything a command needs once the drivers are up. Executor
// and Runs are nil when the bootstrap was opened without a browser.
type Services struct {
	Clients   contracts.OpenMRSClients
	Fixtures  contracts.FixtureUsecase
	Locker    contracts.LockerService
	Artifacts contracts.ArtifactStorage
	Publisher contracts.RunEventPublisher
	Executor  contracts.SuiteExecutor
	Runs      contracts.RunUsecase
}

// Open builds the logger and connects every driver whose address is
// configured. The browser is only launched when withBrowser is set.
func Open(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig, withBrowser bool) (*config.Bootstrap, error) {
	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         logger.NewZapLogger(driverConfig, internalConfig),
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	if driverConfig.Redis.Enabled() {
		bootstrap.Redis = database.NewRedisClient(driverConfig)
	}
	if driverConfig.MongoDB.Enabled() {
		bootstrap.MongoDB = database.NewMongoDB(driverConfig)
	}
	if driverConfig.RabbitMQ.Enabled() {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	}
	if driverConfig.Minio.Enabled() {
		bootstrap.Minio = storageDriver.NewMinio(driverConfig)
	}

	if withBrowser {
		browser, stop, err := browserDriver.NewPlaywright(internalConfig)
		if err != nil {
			return bootstrap, err
		}
		bootstrap.Browser = browser
		bootstrap.BrowserStop = stop
	}
	return bootstrap, nil
}

// NewServices wires the services on top of an opened bootstrap, falling back
// to in-process implementations for every driver left unconfigured.
func NewServices(bootstrap *config.Bootstrap) (*Services, error) {
	internalConfig := bootstrap.InternalConfig
	log := bootstrap.Logger

	// OpenMRS
	transportClient := transport.NewClient(transport.Config{
		BaseURL:           internalConfig.OpenMRS.RestUrl,
		Username:          internalConfig.OpenMRS.Username,
		Password:          internalConfig.OpenMRS.Password,
		RequestsPerSecond: internalConfig.OpenMRS.RequestsPerSecond,
		Timeout:           time.Duration(internalConfig.OpenMRS.RequestTimeoutInSeconds) * time.Second,
	}, log)
	clients := openmrs.NewClients(transportClient, internalConfig.OpenMRS.BillingModulePrefix, log)

	// Locker
	lockerService := locker.NewMemoryLockService()
	if bootstrap.Redis != nil {
		lockerService = locker.NewLockService(redis.NewRedisRepository(bootstrap.Redis), log)
	}

	// Artifacts
	artifacts := storage.NewLocalStorage(internalConfig.App.ArtifactDir, log)
	if bootstrap.Minio != nil {
		artifacts = storage.NewMinioStorage(bootstrap.Minio, bootstrap.DriverConfig.Minio.Bucket, log)
	}

	// Run events
	publisher := runqueue.NewLogPublisher(log)
	if bootstrap.RabbitMQ != nil {
		queuePublisher, err := runqueue.NewService(bootstrap.RabbitMQ, log, bootstrap.DriverConfig.RabbitMQ.RunEventsQueue)
		if err != nil {
			return nil, err
		}
		publisher = queuePublisher
	}

	// Runs
	runRepository := runs.NewRunMemoryRepository()
	if bootstrap.MongoDB != nil {
		runRepository = runs.NewRunMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	}

	fixtureUsecase := fixtures.NewFixtureUsecase(clients, lockerService, internalConfig, log)

	services := &Services{
		Clients:   clients,
		Fixtures:  fixtureUsecase,
		Locker:    lockerService,
		Artifacts: artifacts,
		Publisher: publisher,
	}

	if bootstrap.Browser == nil {
		log.Info("bootstrap.NewServices browser not launched, suites are unavailable")
		return services, nil
	}

	pageFactory := pages.NewSessionPageFactory(bootstrap.Browser, clients.Sessions, internalConfig, log)
	services.Executor = scenarios.NewSuiteExecutor(
		pageFactory,
		fixtureUsecase,
		artifacts,
		lockerService,
		internalConfig,
		log,
		scenarios.All(),
	)
	services.Runs = runs.NewRunUsecase(runRepository, publisher, services.Executor, internalConfig, log)

	log.Info("bootstrap.NewServices succeeded",
		zap.Bool("redis", bootstrap.Redis != nil),
		zap.Bool("mongodb", bootstrap.MongoDB != nil),
		zap.Bool("rabbitmq", bootstrap.RabbitMQ != nil),
		zap.Bool("minio", bootstrap.Minio != nil),
	)
	return services, nil
}

// Close waits for runs still in flight and closes the event publisher.
func (s *Services) Close() error {
	if s.Runs != nil {
		s.Runs.Wait()
	}
	return s.Publisher.Close()
}
