package exceptions

import (
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"time"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevMissingRequestID)
	}
	ErrInvalidAPIKey = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevInvalidAPIKey)
	}
	ErrTooManyRequests = func(limit int) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, fmt.Sprintf(constvars.ErrDevTooManyRequests, limit))
	}
	ErrRouteNotFound = func(method, path string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientResourceNotFound, fmt.Sprintf(constvars.ErrDevRouteNotFound, method, path))
	}
	ErrRunNotFound = func(err error, runID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientResourceNotFound, fmt.Sprintf(constvars.ErrDevRunNotFound, runID))
	}
	ErrUnknownSuite = func(suiteName string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, fmt.Sprintf(constvars.ErrDevUnknownSuite, suiteName), fmt.Sprintf(constvars.ErrDevUnknownSuite, suiteName))
	}
	ErrSuiteLocked = func(suiteName string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientSuiteBusy, fmt.Sprintf(constvars.ErrDevSuiteLocked, suiteName))
	}
)

// HTTP plumbing towards OpenMRS
var (
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCreateHTTPRequest).withKind(KindSetup)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientUpstreamFailure, constvars.ErrDevSendHTTPRequest).withKind(KindSetup)
	}
	ErrReadResponseBody = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientUpstreamFailure, constvars.ErrDevReadResponseBody).withKind(KindSetup)
	}
	ErrDecodeResponse = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientUpstreamFailure, fmt.Sprintf(constvars.ErrDevDecodeResponse, resource)).withKind(KindSetup)
	}
	ErrGetOpenMRSResource = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, upstreamResponseStatus(err), constvars.ErrClientUpstreamFailure, fmt.Sprintf(constvars.ErrDevGetResource, resource)).withKind(KindSetup)
	}
	ErrCreateOpenMRSResource = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, upstreamResponseStatus(err), constvars.ErrClientUpstreamFailure, fmt.Sprintf(constvars.ErrDevCreateResource, resource)).withKind(KindSetup)
	}
	ErrUpdateOpenMRSResource = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, upstreamResponseStatus(err), constvars.ErrClientUpstreamFailure, fmt.Sprintf(constvars.ErrDevUpdateResource, resource)).withKind(KindSetup)
	}
	ErrDeleteOpenMRSResource = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, upstreamResponseStatus(err), constvars.ErrClientUpstreamFailure, fmt.Sprintf(constvars.ErrDevDeleteResource, resource)).withKind(KindSetup)
	}
)

// Fixture errors name the missing resource and abort the scenario before its body runs.
var (
	ErrMissingConfiguration = func(key string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusFailedDependency, constvars.ErrClientFixtureFailure, fmt.Sprintf(constvars.ErrDevMissingConfiguration, key)).withKind(KindFixture)
	}
	ErrPaymentModeNotFound = func(name string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusFailedDependency, constvars.ErrClientFixtureFailure, fmt.Sprintf(constvars.ErrDevPaymentModeNotFound, name)).withKind(KindFixture)
	}
	ErrServicePriceNotFound = func(name string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusFailedDependency, constvars.ErrClientFixtureFailure, fmt.Sprintf(constvars.ErrDevServicePriceNotFound, name)).withKind(KindFixture)
	}
	ErrNoCashPoints = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusFailedDependency, constvars.ErrClientFixtureFailure, constvars.ErrDevNoCashPoints).withKind(KindFixture)
	}
	ErrNoBillableServices = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusFailedDependency, constvars.ErrClientFixtureFailure, constvars.ErrDevNoBillableServices).withKind(KindFixture)
	}
	ErrNoBillsForPatient = func(patientUUID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientResourceNotFound, fmt.Sprintf(constvars.ErrDevNoBillsForPatient, patientUUID)).withKind(KindAssertion)
	}
	ErrEmptyIdentifier = func(sourceUUID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusFailedDependency, constvars.ErrClientFixtureFailure, fmt.Sprintf(constvars.ErrDevEmptyIdentifier, sourceUUID)).withKind(KindFixture)
	}
	ErrSessionNotAuthenticated = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientFixtureFailure, constvars.ErrDevSessionNotAuthenticated).withKind(KindFixture)
	}
	ErrFixture = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusFailedDependency, constvars.ErrClientFixtureFailure, constvars.ErrClientFixtureFailure).withKind(KindFixture)
	}
)

// Scenario assertions and browser gestures
var (
	ErrAssertionFailed = func(format string, args ...interface{}) *CustomError {
		message := fmt.Sprintf(format, args...)
		return BuildNewCustomError(nil, constvars.StatusInternalServerError, message, fmt.Sprintf(constvars.ErrDevAssertionFailed, message)).withKind(KindAssertion)
	}
	ErrPollTimeout = func(err error, timeout time.Duration, observed string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, fmt.Sprintf(constvars.ErrDevPollTimeout, timeout, observed)).withKind(KindTimeout)
	}
	ErrBrowserAction = func(err error, action string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevBrowserAction, action)).withKind(KindAssertion)
	}
	ErrBrowserLaunch = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevBrowserLaunch)
	}
)

// Infrastructure
var (
	ErrMongoDBInsertDocument = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoDBInsertDocument, collection))
	}
	ErrMongoDBUpdateDocument = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoDBUpdateDocument, collection))
	}
	ErrMongoDBFindDocument = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoDBFindDocument, collection))
	}
	ErrMongoDBDecodeDocument = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMongoDBDecodeDocument, collection))
	}
	ErrRedisSetNX = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetNX)
	}
	ErrRedisGet = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRedisGet, key))
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDelete)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}
	ErrRabbitMQDeclareQueue = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQDeclareQueue, queueName))
	}
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioCreateObject, bucketName))
	}
	ErrMinioBucketNotExist = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioBucketNotExist, bucketName))
	}
	ErrLocalArtifactWrite = func(err error, path string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevLocalArtifactWrite, path))
	}
)
