package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_API_KEY_AUTH_KEY         ContextKey = "api_key_auth"
	CONTEXT_RUN_ID_KEY               ContextKey = "run_id"
)

const (
	REQUEST_ID_PREFIX = "BILLING_E2E_"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	RunStatusQueued  = "queued"
	RunStatusRunning = "running"
	RunStatusPassed  = "passed"
	RunStatusFailed  = "failed"
)

const (
	CaseStatusPassed  = "passed"
	CaseStatusFailed  = "failed"
	CaseStatusSkipped = "skipped"
)

const (
	RunEventStarted      = "run.started"
	RunEventCaseFinished = "case.finished"
	RunEventFinished     = "run.finished"
)

const (
	MongoCollectionRuns = "runs"
)

const (
	RedisKeyServicePriceLockFormat = "billing_e2e:service_price_lock:%s"
	RedisKeySuiteLockFormat        = "billing_e2e:suite_lock:%s"
)

const (
	ArtifactScreenshotExtension = ".png"
	ArtifactObjectKeyFormat     = "%s/%s/%s"
)

const (
	DefaultRunListLimit = 20
	MaxRunListLimit     = 100
)
