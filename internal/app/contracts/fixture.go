package contracts

import (
	"context"
	"openmrs-billing-e2e/internal/pkg/cleanup"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
)

// FixtureUsecase seeds and tears down OpenMRS state for scenarios. Setup
// methods return an error on the first failing call; teardown methods never
// fail and report what could not be deleted instead.
type FixtureUsecase interface {
	EnsureServiceHasPrices(ctx context.Context, serviceUUID string, defaultPrice float64) (*responses.BillableService, error)
	EnsurePaymentMode(ctx context.Context, name, description string) (*responses.PaymentMode, error)
	GenerateRandomPatient(ctx context.Context, locationUUID string) (*responses.Patient, error)
	CreatePendingBill(ctx context.Context, patientUUID string) (*responses.SeededBill, error)
	ResolveCashier(ctx context.Context) (string, error)
	FindPaymentMode(ctx context.Context, name string) (*responses.PaymentMode, error)
	BillableService(ctx context.Context, serviceUUID string) (*responses.BillableService, error)
	GetBill(ctx context.Context, billUUID string) (*responses.Bill, error)
	ListBills(ctx context.Context, patientUUID string) ([]responses.Bill, error)
	LatestBillForPatient(ctx context.Context, patientUUID string) (*responses.Bill, error)

	DeleteBill(ctx context.Context, billUUID string) cleanup.Report
	DeleteAllBillsForPatient(ctx context.Context, patientUUID string) cleanup.Report
	DeletePatient(ctx context.Context, patientUUID string) cleanup.Report
}
