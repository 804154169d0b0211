package billableservices

import (
	"context"
	"net/url"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type billableServiceOpenMRSClient struct {
	Transport    *transport.Client
	ResourcePath string
	Log          *zap.Logger
}

func NewBillableServiceOpenMRSClient(transportClient *transport.Client, modulePrefix string, logger *zap.Logger) contracts.BillableServiceClient {
	return &billableServiceOpenMRSClient{
		Transport:    transportClient,
		ResourcePath: transport.ModulePath(modulePrefix, constvars.ResourceBillableService),
		Log:          logger,
	}
}

func (c *billableServiceOpenMRSClient) FindBillableServiceByID(ctx context.Context, serviceUUID string) (*responses.BillableService, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billableServiceOpenMRSClient.FindBillableServiceByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceUUIDKey, serviceUUID),
	)

	service := new(responses.BillableService)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   c.ResourcePath + "/" + serviceUUID,
	}, service)
	if err != nil {
		c.Log.Error("billableServiceOpenMRSClient.FindBillableServiceByID error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, constvars.ResourceBillableService)
	}

	c.Log.Info("billableServiceOpenMRSClient.FindBillableServiceByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(service.ServicePrices)),
	)
	return service, nil
}

func (c *billableServiceOpenMRSClient) ListBillableServices(ctx context.Context, full bool) ([]responses.BillableService, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billableServiceOpenMRSClient.ListBillableServices called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	query := url.Values{}
	if full {
		query.Set(constvars.QueryParamView, constvars.QueryViewFull)
	}
	var result responses.ListResponse[responses.BillableService]
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   c.ResourcePath,
		Query:  query,
	}, &result)
	if err != nil {
		c.Log.Error("billableServiceOpenMRSClient.ListBillableServices error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, constvars.ResourceBillableService)
	}

	c.Log.Info("billableServiceOpenMRSClient.ListBillableServices succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result.Results)),
	)
	return result.Results, nil
}

// UpdateServicePrices posts the complete price list. The response body is
// not trusted as the new state; callers re-fetch the service.
func (c *billableServiceOpenMRSClient) UpdateServicePrices(ctx context.Context, serviceUUID string, request *requests.UpdateServicePrices) (*responses.BillableService, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billableServiceOpenMRSClient.UpdateServicePrices called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceUUIDKey, serviceUUID),
		zap.Int(constvars.LoggingCountKey, len(request.ServicePrices)),
	)

	service := new(responses.BillableService)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodPost,
		Path:   c.ResourcePath + "/" + serviceUUID,
		Body:   request,
	}, service)
	if err != nil {
		c.Log.Error("billableServiceOpenMRSClient.UpdateServicePrices error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrUpdateOpenMRSResource(err, constvars.ResourceBillableService)
	}

	c.Log.Info("billableServiceOpenMRSClient.UpdateServicePrices succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return service, nil
}
