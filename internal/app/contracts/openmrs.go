package contracts

import (
	"context"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
)

type IdentifierClient interface {
	GenerateIdentifier(ctx context.Context, sourceUUID string) (string, error)
}

type PatientClient interface {
	CreatePatient(ctx context.Context, request *requests.CreatePatient) (*responses.Patient, error)
	FindPatientByID(ctx context.Context, patientUUID string) (*responses.Patient, error)
	DeletePatient(ctx context.Context, patientUUID string, purge bool) error
}

type BillableServiceClient interface {
	FindBillableServiceByID(ctx context.Context, serviceUUID string) (*responses.BillableService, error)
	ListBillableServices(ctx context.Context, full bool) ([]responses.BillableService, error)
	UpdateServicePrices(ctx context.Context, serviceUUID string, request *requests.UpdateServicePrices) (*responses.BillableService, error)
}

type PaymentModeClient interface {
	ListPaymentModes(ctx context.Context) ([]responses.PaymentMode, error)
	CreatePaymentMode(ctx context.Context, request *requests.CreatePaymentMode) (*responses.PaymentMode, error)
}

type CashPointClient interface {
	ListCashPoints(ctx context.Context) ([]responses.CashPoint, error)
}

type BillClient interface {
	CreateBill(ctx context.Context, request *requests.CreateBill) (*responses.Bill, error)
	FindBillByID(ctx context.Context, billUUID string, full bool) (*responses.Bill, error)
	ListBillsByPatient(ctx context.Context, patientUUID string) ([]responses.Bill, error)
	DeleteBill(ctx context.Context, billUUID string, purge bool) error
}

type SessionClient interface {
	GetSession(ctx context.Context) (*responses.Session, error)
	// SetSessionLocation binds the location to the session identified by sessionID.
	SetSessionLocation(ctx context.Context, sessionID string, request *requests.SetSessionLocation) (*responses.Session, error)
}

// OpenMRSClients groups the resource clients the fixtures work with.
type OpenMRSClients struct {
	Identifiers      IdentifierClient
	Patients         PatientClient
	BillableServices BillableServiceClient
	PaymentModes     PaymentModeClient
	CashPoints       CashPointClient
	Bills            BillClient
	Sessions         SessionClient
}
