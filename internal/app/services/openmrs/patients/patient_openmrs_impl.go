package patients

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

type patientOpenMRSClient struct {
	Transport *transport.Client
	Log       *zap.Logger
}

func NewPatientOpenMRSClient(transportClient *transport.Client, logger *zap.Logger) contracts.PatientClient {
	return &patientOpenMRSClient{
		Transport: transportClient,
		Log:       logger,
	}
}

func (c *patientOpenMRSClient) CreatePatient(ctx context.Context, request *requests.CreatePatient) (*responses.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientOpenMRSClient.CreatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patient := new(responses.Patient)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodPost,
		Path:   constvars.ResourcePatient,
		Body:   request,
	}, patient)
	if err != nil {
		c.Log.Error("patientOpenMRSClient.CreatePatient error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateOpenMRSResource(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientOpenMRSClient.CreatePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientUUIDKey, patient.UUID),
	)
	return patient, nil
}

func (c *patientOpenMRSClient) FindPatientByID(ctx context.Context, patientUUID string) (*responses.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientOpenMRSClient.FindPatientByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientUUIDKey, patientUUID),
	)

	patient := new(responses.Patient)
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodGet,
		Path:   constvars.ResourcePatient + "/" + patientUUID,
	}, patient)
	if err != nil {
		c.Log.Error("patientOpenMRSClient.FindPatientByID error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGetOpenMRSResource(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientOpenMRSClient.FindPatientByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return patient, nil
}

func (c *patientOpenMRSClient) DeletePatient(ctx context.Context, patientUUID string, purge bool) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientOpenMRSClient.DeletePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientUUIDKey, patientUUID),
		zap.Bool("purge", purge),
	)

	query := url.Values{}
	if purge {
		query.Set(constvars.QueryParamPurge, constvars.QueryValueTrue)
	}
	err := c.Transport.Do(ctx, transport.Request{
		Method: constvars.MethodDelete,
		Path:   constvars.ResourcePatient + "/" + patientUUID,
		Query:  query,
	}, nil)
	if err != nil {
		c.Log.Error("patientOpenMRSClient.DeletePatient error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrDeleteOpenMRSResource(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientOpenMRSClient.DeletePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}
