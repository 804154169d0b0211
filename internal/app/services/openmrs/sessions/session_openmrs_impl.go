package sessions

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type sessionOpenMRSClient struct {
	Transport *transport.Client
	Log       *zap.Logger
}

func NewSessionOpenMRSClient(transportClient *transport.Client, logger *zap.Logger) contracts.SessionClient {
	return &sessionOpenMRSClient{
		Transport: transportClient,
		Log:       logger,
	}
}

func (c *sessionOpenMRSClient) GetSession(ctx context.Context) (*responses.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("sessionOpenMRSClient.GetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	session := new(responses.Session)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   constvars.ResourceSession,
	}, session)
	if err != nil {
		c.Log.Error("sessionOpenMRSClient.GetSession error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, constvars.ResourceSession)
	}

	if !session.Authenticated {
		c.Log.Error("sessionOpenMRSClient.GetSession session not authenticated",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrSessionNotAuthenticated()
	}

	c.Log.Info("sessionOpenMRSClient.GetSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return session, nil
}

func (c *sessionOpenMRSClient) SetSessionLocation(ctx context.Context, sessionID string, request *requests.SetSessionLocation) (*responses.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("sessionOpenMRSClient.SetSessionLocation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("location_uuid", request.SessionLocation),
	)

	session := new(responses.Session)
	err := c.Transport.Do(ctx, transport.Request{
		Method:    constvars.MethodPost,
		Path:      constvars.ResourceSession,
		Body:      request,
		SessionID: sessionID,
	}, session)
	if err != nil {
		c.Log.Error("sessionOpenMRSClient.SetSessionLocation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrUpdateOpenMRSResource(err, constvars.ResourceSession)
	}

	c.Log.Info("sessionOpenMRSClient.SetSessionLocation succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return session, nil
}
