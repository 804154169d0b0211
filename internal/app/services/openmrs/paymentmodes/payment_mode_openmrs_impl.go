package paymentmodes

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

type paymentModeOpenMRSClient struct {
	Transport    *transport.Client
	ResourcePath string
	Log          *zap.Logger
}

func NewPaymentModeOpenMRSClient(transportClient *transport.Client, modulePrefix string, logger *zap.Logger) contracts.PaymentModeClient {
	return &paymentModeOpenMRSClient{
		Transport:    transportClient,
		ResourcePath: transport.ModulePath(modulePrefix, constvars.ResourcePaymentMode),
		Log:          logger,
	}
}

func (c *paymentModeOpenMRSClient) ListPaymentModes(ctx context.Context) ([]responses.PaymentMode, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("paymentModeOpenMRSClient.ListPaymentModes called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var result responses.ListResponse[responses.PaymentMode]
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   c.ResourcePath,
	}, &result)
	if err != nil {
		c.Log.Error("paymentModeOpenMRSClient.ListPaymentModes error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, "payment modes")
	}

	c.Log.Info("paymentModeOpenMRSClient.ListPaymentModes succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result.Results)),
	)
	return result.Results, nil
}

func (c *paymentModeOpenMRSClient) CreatePaymentMode(ctx context.Context, request *requests.CreatePaymentMode) (*responses.PaymentMode, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("paymentModeOpenMRSClient.CreatePaymentMode called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentModeKey, request.Name),
	)

	paymentMode := new(responses.PaymentMode)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodPost,
		Path:   c.ResourcePath,
		Body:   request,
	}, paymentMode)
	if err != nil {
		c.Log.Error("paymentModeOpenMRSClient.CreatePaymentMode error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateOpenMRSResource(err, constvars.ResourcePaymentMode)
	}

	c.Log.Info("paymentModeOpenMRSClient.CreatePaymentMode succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("payment_mode_uuid", paymentMode.UUID),
	)
	return paymentMode, nil
}
