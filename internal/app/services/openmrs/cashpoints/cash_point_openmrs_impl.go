package cashpoints

import (
	"context"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type cashPointOpenMRSClient struct {
	Transport    *transport.Client
	ResourcePath string
	Log          *zap.Logger
}

func NewCashPointOpenMRSClient(transportClient *transport.Client, modulePrefix string, logger *zap.Logger) contracts.CashPointClient {
	return &cashPointOpenMRSClient{
		Transport:    transportClient,
		ResourcePath: transport.ModulePath(modulePrefix, constvars.ResourceCashPoint),
		Log:          logger,
	}
}

func (c *cashPointOpenMRSClient) ListCashPoints(ctx context.Context) ([]responses.CashPoint, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("cashPointOpenMRSClient.ListCashPoints called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var result responses.ListResponse[responses.CashPoint]
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   c.ResourcePath,
	}, &result)
	if err != nil {
		c.Log.Error("cashPointOpenMRSClient.ListCashPoints error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, "cash points")
	}

	c.Log.Info("cashPointOpenMRSClient.ListCashPoints succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result.Results)),
	)
	return result.Results, nil
}
