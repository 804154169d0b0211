package constvars

var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"oneof":    "must be one of [%s]",
	"dive":     "is invalid",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"gt":    true,
	"gte":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "something went wrong with the application"
	ErrClientNotAuthorized                 = "you are not authorized to access this resource"
	ErrClientServerLongRespond             = "the server took too long to respond"
	ErrClientResourceNotFound              = "the requested resource was not found"
	ErrClientUpstreamFailure               = "the OpenMRS backend rejected the request"
	ErrClientFixtureFailure                = "the test fixture could not be prepared"
	ErrClientSuiteBusy                     = "the requested suite is already running"
	ErrClientTooManyRequests               = "too many requests, please try again later"
)

// Error messages for developers
const (
	ErrDevValidationFailed        = "validation failed"
	ErrDevCannotParseJSON         = "failed to parse JSON"
	ErrDevCannotMarshalJSON       = "failed to marshal JSON"
	ErrDevCreateHTTPRequest       = "failed to create HTTP request"
	ErrDevSendHTTPRequest         = "failed to send HTTP request"
	ErrDevReadResponseBody        = "failed to read response body"
	ErrDevDecodeResponse          = "failed to decode %s response"
	ErrDevOpenMRSRequestFailed    = "%s %s returned status %d: %s"
	ErrDevGetResource             = "Failed to get %s"
	ErrDevCreateResource          = "Failed to create %s"
	ErrDevUpdateResource          = "Failed to update %s"
	ErrDevDeleteResource          = "Failed to delete %s"
	ErrDevServerDeadlineExceeded  = "server deadline exceeded"
	ErrDevMissingRequestID        = "request ID missing from context"
	ErrDevInvalidAPIKey           = "invalid API key"
	ErrDevTooManyRequests         = "rate limit of %d requests per second exceeded"
	ErrDevRouteNotFound           = "no route for %s %s"
	ErrDevMissingConfiguration    = "%s must be configured in .env file"
	ErrDevPaymentModeNotFound     = "%s payment mode not found in the system"
	ErrDevServicePriceNotFound    = "%s price not found for test service"
	ErrDevNoCashPoints            = "No cash points available for testing"
	ErrDevNoBillableServices      = "No billable services available for testing"
	ErrDevNoBillsForPatient       = "no bills found for patient %s"
	ErrDevEmptyIdentifier         = "identifier source %s returned an empty identifier"
	ErrDevSessionNotAuthenticated = "OpenMRS session is not authenticated"
	ErrDevRunNotFound             = "run %s not found"
	ErrDevUnknownSuite            = "unknown suite %s"
	ErrDevSuiteLocked             = "suite %s is locked by another runner"
	ErrDevPollTimeout             = "condition not met within %s: %s"
	ErrDevAssertionFailed         = "assertion failed: %s"
	ErrDevBrowserAction           = "browser action %s failed"
	ErrDevBrowserLaunch           = "failed to launch browser"
	ErrDevMongoDBInsertDocument   = "failed to insert document into collection %s"
	ErrDevMongoDBUpdateDocument   = "failed to update document in collection %s"
	ErrDevMongoDBFindDocument     = "failed to find document in collection %s"
	ErrDevMongoDBDecodeDocument   = "failed to decode document from collection %s"
	ErrDevRedisSetNX              = "failed to set redis key if absent"
	ErrDevRedisGet                = "failed to get redis key %s"
	ErrDevRedisDelete             = "failed to delete redis key"
	ErrDevRedisUnlock             = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage  = "failed to publish message to queue %s"
	ErrDevRabbitMQDeclareQueue    = "failed to declare queue %s"
	ErrDevMinioCreateObject       = "failed to create object in bucket %s"
	ErrDevMinioBucketNotExist     = "bucket %s does not exist"
	ErrDevLocalArtifactWrite      = "failed to write artifact %s"
)
