package bills

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

type billOpenMRSClient struct {
	Transport    *transport.Client
	ResourcePath string
	Log          *zap.Logger
}

func NewBillOpenMRSClient(transportClient *transport.Client, modulePrefix string, logger *zap.Logger) contracts.BillClient {
	return &billOpenMRSClient{
		Transport:    transportClient,
		ResourcePath: transport.ModulePath(modulePrefix, constvars.ResourceBill),
		Log:          logger,
	}
}

func (c *billOpenMRSClient) CreateBill(ctx context.Context, request *requests.CreateBill) (*responses.Bill, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billOpenMRSClient.CreateBill called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientUUIDKey, request.Patient),
	)

	bill := new(responses.Bill)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodPost,
		Path:   c.ResourcePath,
		Body:   request,
	}, bill)
	if err != nil {
		c.Log.Error("billOpenMRSClient.CreateBill error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateOpenMRSResource(err, constvars.ResourceBill)
	}

	c.Log.Info("billOpenMRSClient.CreateBill succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBillUUIDKey, bill.UUID),
	)
	return bill, nil
}

func (c *billOpenMRSClient) FindBillByID(ctx context.Context, billUUID string, full bool) (*responses.Bill, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billOpenMRSClient.FindBillByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBillUUIDKey, billUUID),
	)

	query := url.Values{}
	if full {
		query.Set(constvars.QueryParamView, constvars.QueryViewFull)
	}
	bill := new(responses.Bill)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   c.ResourcePath + "/" + billUUID,
		Query:  query,
	}, bill)
	if err != nil {
		c.Log.Error("billOpenMRSClient.FindBillByID error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, constvars.ResourceBill)
	}

	c.Log.Info("billOpenMRSClient.FindBillByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("status", bill.Status),
	)
	return bill, nil
}

func (c *billOpenMRSClient) ListBillsByPatient(ctx context.Context, patientUUID string) ([]responses.Bill, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billOpenMRSClient.ListBillsByPatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientUUIDKey, patientUUID),
	)

	query := url.Values{}
	query.Set(constvars.QueryParamPatient, patientUUID)
	query.Set(constvars.QueryParamView, constvars.QueryViewFull)

	var result responses.ListResponse[responses.Bill]
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   c.ResourcePath,
		Query:  query,
	}, &result)
	if err != nil {
		c.Log.Error("billOpenMRSClient.ListBillsByPatient error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, "bills")
	}

	c.Log.Info("billOpenMRSClient.ListBillsByPatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result.Results)),
	)
	return result.Results, nil
}

func (c *billOpenMRSClient) DeleteBill(ctx context.Context, billUUID string, purge bool) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billOpenMRSClient.DeleteBill called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBillUUIDKey, billUUID),
	)

	query := url.Values{}
	if purge {
		query.Set(constvars.QueryParamPurge, constvars.QueryValueTrue)
	}
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodDelete,
		Path:   c.ResourcePath + "/" + billUUID,
		Query:  query,
	}, nil)
	if err != nil {
		c.Log.Error("billOpenMRSClient.DeleteBill error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrDeleteOpenMRSResource(err, constvars.ResourceBill)
	}

	c.Log.Info("billOpenMRSClient.DeleteBill succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}
