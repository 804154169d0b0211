package identifiers

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type identifierOpenMRSClient struct {
	Transport *transport.Client
	Log       *zap.Logger
}

func NewIdentifierOpenMRSClient(transportClient *transport.Client, logger *zap.Logger) contracts.IdentifierClient {
	return &identifierOpenMRSClient{
		Transport: transportClient,
		Log:       logger,
	}
}

// GenerateIdentifier reserves the next identifier of the given source. The
// backend hands identifiers out atomically, so they are never made up here.
func (c *identifierOpenMRSClient) GenerateIdentifier(ctx context.Context, sourceUUID string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("identifierOpenMRSClient.GenerateIdentifier called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("source_uuid", sourceUUID),
	)

	var generated responses.GeneratedIdentifier
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodPost,
		Path:   constvars.ResourceIdentifierSource + "/" + sourceUUID + "/" + constvars.ResourceIdentifier,
		Body:   struct{}{},
	}, &generated)
	if err != nil {
		c.Log.Error("identifierOpenMRSClient.GenerateIdentifier error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrCreateOpenMRSResource(err, constvars.ResourceIdentifier)
	}

	if generated.Identifier == "" {
		c.Log.Error("identifierOpenMRSClient.GenerateIdentifier empty identifier",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return "", exceptions.ErrEmptyIdentifier(sourceUUID)
	}

	c.Log.Info("identifierOpenMRSClient.GenerateIdentifier succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("identifier", generated.Identifier),
	)
	return generated.Identifier, nil
}
