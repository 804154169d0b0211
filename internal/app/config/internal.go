package config

type InternalConfig struct {
	App     App     `mapstructure:"app"`
	OpenMRS OpenMRS `mapstructure:"openmrs"`
	Browser Browser `mapstructure:"browser"`
	Fixture Fixture `mapstructure:"fixture"`
}

type App struct {
	Env                      string `mapstructure:"env"`
	Port                     string `mapstructure:"port"`
	Version                  string `mapstructure:"version"`
	EndpointPrefix           string `mapstructure:"endpoint_prefix"`
	APIKey                   string `mapstructure:"api_key"`
	MaxRequests              int    `mapstructure:"max_requests" validate:"gt=0"`
	ShutdownTimeoutInSeconds int    `mapstructure:"shutdown_timeout_in_seconds" validate:"gt=0"`
	RunTimeoutInMinutes      int    `mapstructure:"run_timeout_in_minutes" validate:"gt=0"`
	// Workers bounds how many cases of a non serial suite run at once.
	Workers     int    `mapstructure:"workers" validate:"gt=0"`
	ArtifactDir string `mapstructure:"artifact_dir"`
	// Suites is what the CLI runs when no suite is named.
	Suites []string `mapstructure:"suites" validate:"dive,required"`
}

// OpenMRS points the runner at the instance under test.
type OpenMRS struct {
	RestUrl                 string  `mapstructure:"rest_url" validate:"required,url"`
	SpaUrl                  string  `mapstructure:"spa_url" validate:"required,url"`
	Username                string  `mapstructure:"username" validate:"required"`
	Password                string  `mapstructure:"password" validate:"required"`
	DefaultLocationUUID     string  `mapstructure:"default_location_uuid"`
	TestServiceUUID         string  `mapstructure:"test_service_uuid"`
	BillingModulePrefix     string  `mapstructure:"billing_module_prefix" validate:"required"`
	IdentifierSourceUUID    string  `mapstructure:"identifier_source_uuid" validate:"required"`
	IdentifierTypeUUID      string  `mapstructure:"identifier_type_uuid" validate:"required"`
	RequestsPerSecond       float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	RequestTimeoutInSeconds int     `mapstructure:"request_timeout_in_seconds" validate:"gt=0"`
}

type Browser struct {
	Headless           bool    `mapstructure:"headless"`
	SlowMoInMs         float64 `mapstructure:"slow_mo_in_ms" validate:"gte=0"`
	DefaultTimeoutInMs float64 `mapstructure:"default_timeout_in_ms" validate:"gt=0"`
}

type Fixture struct {
	DefaultCashPrice        float64 `mapstructure:"default_cash_price" validate:"gt=0"`
	PaymentMode             string  `mapstructure:"payment_mode" validate:"required"`
	PriceLockTTLInSeconds   int     `mapstructure:"price_lock_ttl_in_seconds" validate:"gt=0"`
	SuiteLockTTLInMinutes   int     `mapstructure:"suite_lock_ttl_in_minutes" validate:"gt=0"`
	PollIntervalInMs        int     `mapstructure:"poll_interval_in_ms" validate:"gt=0"`
	StatusPollTimeoutInSecs int     `mapstructure:"status_poll_timeout_in_secs" validate:"gt=0"`
}
