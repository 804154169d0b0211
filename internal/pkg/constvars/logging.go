package constvars

const (
	LoggingRequestIDKey   = "request_id"
	LoggingRunIDKey       = "run_id"
	LoggingSuiteKey       = "suite"
	LoggingCaseKey        = "case"
	LoggingStepKey        = "step"
	LoggingStepIndexKey   = "step_index"
	LoggingDurationKey    = "duration"
	LoggingErrorKey       = "error"
	LoggingErrorTypeKey   = "error_type"
	LoggingStatusCodeKey  = "status_code"
	LoggingMethodKey      = "method"
	LoggingEndpointKey    = "endpoint"
	LoggingURLKey         = "url"
	LoggingRemoteAddrKey  = "remote_addr"
	LoggingUserAgentKey   = "user_agent"
	LoggingQueryKey       = "query"
	LoggingSuccessKey     = "success"
	LoggingResponseKey    = "response"
	LoggingResourceKey    = "resource"
	LoggingCountKey       = "count"
	LoggingArtifactKey    = "artifact"
	LoggingQueueNameKey   = "queue_name"
	LoggingEventTypeKey   = "event_type"
	LoggingBucketNameKey  = "bucket_name"
	LoggingCollectionKey  = "collection"
	LoggingRedisKey       = "redis_key"
	LoggingLockValueKey   = "lock_value"
	LoggingLockStoredKey  = "lock_stored_value"
	LoggingLockExpiryKey  = "lock_expiration"
	LoggingAttemptKey     = "attempt"
	LoggingObservedKey    = "observed"
	LoggingPatientUUIDKey = "patient_uuid"
	LoggingBillUUIDKey    = "bill_uuid"
	LoggingServiceUUIDKey = "service_uuid"
	LoggingPaymentModeKey = "payment_mode"
	LoggingPriceKey       = "price"
	LoggingCleanupKey     = "cleanup"
	LoggingCaseStatusKey  = "case_status"
)
