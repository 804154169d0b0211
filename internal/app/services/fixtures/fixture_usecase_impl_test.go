package fixtures

import (
	"context"
	"net/http"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/services/openmrs"
	"openmrs-billing-e2e/internal/app/services/openmrs/openmrstest"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"
	"openmrs-billing-e2e/internal/app/services/shared/locker"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig() *config.InternalConfig {
	return &config.InternalConfig{
		OpenMRS: config.OpenMRS{
			DefaultLocationUUID:  "44c3efb0-2583-4c80-a79e-1f756a03c0a1",
			BillingModulePrefix:  constvars.BillingModuleBilling,
			IdentifierSourceUUID: constvars.DefaultIdentifierSourceUUID,
			IdentifierTypeUUID:   constvars.DefaultIdentifierTypeUUID,
		},
		Fixture: config.Fixture{
			DefaultCashPrice:      constvars.DefaultServicePrice,
			PaymentMode:           constvars.PaymentModeCash,
			PriceLockTTLInSeconds: 5,
			PollIntervalInMs:      5,
		},
	}
}

func newTestUsecase(t *testing.T) (contracts.FixtureUsecase, *openmrstest.Backend) {
	t.Helper()
	backend := openmrstest.New(constvars.BillingModuleBilling)
	t.Cleanup(backend.Close)
	transportClient := transport.NewClient(transport.Config{
		BaseURL:  backend.URL(),
		Username: "admin",
		Password: "Admin123",
	}, zap.NewNop())
	clients := openmrs.NewClients(transportClient, constvars.BillingModuleBilling, zap.NewNop())
	return NewFixtureUsecase(clients, locker.NewMemoryLockService(), newTestConfig(), zap.NewNop()), backend
}

func TestEnsureServiceHasPrices(t *testing.T) {
	t.Run("Adds Cash Price Once", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.AddPaymentMode(constvars.PaymentModeCash)
		service := backend.AddService(responses.BillableService{Name: "Consultation"})
		ctx := context.Background()

		first, err := usecase.EnsureServiceHasPrices(ctx, service.UUID, 30)
		require.NoError(t, err)
		second, err := usecase.EnsureServiceHasPrices(ctx, service.UUID, 30)
		require.NoError(t, err)

		assert.Equal(t, 1, first.CountPricesNamed(constvars.PaymentModeCash))
		assert.Equal(t, 1, second.CountPricesNamed(constvars.PaymentModeCash))
		price, ok := second.PriceNamed(constvars.PaymentModeCash)
		require.True(t, ok)
		assert.True(t, decimal.NewFromInt(30).Equal(price.Price))
		assert.Equal(t, 1, backend.CountRequests(http.MethodPost, "/billableService/"+service.UUID))
	})

	t.Run("Keeps Existing Prices", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.AddPaymentMode(constvars.PaymentModeCash)
		mobileMoney := backend.AddPaymentMode("Mobile Money")
		service := backend.AddService(responses.BillableService{
			Name: "Lab Test",
			ServicePrices: []responses.ServicePrice{{
				UUID:        "price-mm",
				Name:        "Mobile Money",
				Price:       decimal.NewFromInt(45),
				PaymentMode: responses.ResourceRef{UUID: mobileMoney.UUID},
			}},
		})

		updated, err := usecase.EnsureServiceHasPrices(context.Background(), service.UUID, 30)

		require.NoError(t, err)
		require.Len(t, updated.ServicePrices, 2)
		existing, ok := updated.PriceNamed("Mobile Money")
		require.True(t, ok)
		assert.Equal(t, "price-mm", existing.UUID)
		assert.Equal(t, mobileMoney.UUID, existing.PaymentMode.UUID)
		assert.True(t, decimal.NewFromInt(45).Equal(existing.Price))
	})

	t.Run("Concurrent Callers Add One Price", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.AddPaymentMode(constvars.PaymentModeCash)
		service := backend.AddService(responses.BillableService{Name: "Consultation"})

		var wg sync.WaitGroup
		errs := make(chan error, 4)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := usecase.EnsureServiceHasPrices(context.Background(), service.UUID, 30)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
		stored, ok := backend.Service(service.UUID)
		require.True(t, ok)
		assert.Equal(t, 1, stored.CountPricesNamed(constvars.PaymentModeCash))
	})

	t.Run("Missing Cash Payment Mode", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		service := backend.AddService(responses.BillableService{Name: "Consultation"})

		_, err := usecase.EnsureServiceHasPrices(context.Background(), service.UUID, 30)

		require.Error(t, err)
		assert.Equal(t, exceptions.KindFixture, exceptions.KindOf(err))
		assert.Equal(t, "Cash payment mode not found in the system", exceptions.MessageOf(err))
		assert.Equal(t, 0, backend.CountRequests(http.MethodPost, "/billableService/"+service.UUID))
	})

	t.Run("Unknown Service Surfaces Upstream Body", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.AddPaymentMode(constvars.PaymentModeCash)

		_, err := usecase.EnsureServiceHasPrices(context.Background(), "missing", 30)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, exceptions.UpstreamStatusCode(err))
	})
}

func TestEnsurePaymentMode(t *testing.T) {
	t.Run("Creates Only When Missing", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		ctx := context.Background()

		created, err := usecase.EnsurePaymentMode(ctx, "Mobile Money", "Mobile payments")
		require.NoError(t, err)
		again, err := usecase.EnsurePaymentMode(ctx, "Mobile Money", "Mobile payments")
		require.NoError(t, err)

		assert.Equal(t, created.UUID, again.UUID)
		assert.Equal(t, 1, backend.CountRequests(http.MethodPost, "/paymentMode"))
	})
}

func TestGenerateRandomPatient(t *testing.T) {
	t.Run("Identifier Is Generated Before Patient", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)

		patient, err := usecase.GenerateRandomPatient(context.Background(), "")

		require.NoError(t, err)
		recorded := backend.Requests()
		require.Len(t, recorded, 2)
		assert.True(t, strings.HasSuffix(recorded[0].Path, "/idgen/identifiersource/"+constvars.DefaultIdentifierSourceUUID+"/identifier"))
		assert.Equal(t, "{}", recorded[0].Body)
		assert.True(t, strings.HasSuffix(recorded[1].Path, "/patient"))

		require.Len(t, patient.Identifiers, 1)
		assert.Equal(t, "E2E00001", patient.Identifiers[0].Identifier)
		assert.Equal(t, constvars.DefaultIdentifierTypeUUID, patient.Identifiers[0].IdentifierType.UUID)
		assert.Equal(t, "44c3efb0-2583-4c80-a79e-1f756a03c0a1", patient.Identifiers[0].Location.UUID)
		assert.True(t, strings.HasPrefix(patient.Person.Names[0].GivenName, constvars.TestPatientGivenNamePrefix))
		assert.True(t, strings.HasPrefix(patient.Person.Names[0].FamilyName, constvars.TestPatientFamilyNamePrefix))
		assert.Equal(t, constvars.TestPatientGender, patient.Person.Gender)
		assert.Equal(t, constvars.TestPatientBirthdate, patient.Person.Birthdate)
	})

	t.Run("Identifier Failure Stops Creation", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.Fail(http.MethodPost, "/identifier", http.StatusInternalServerError, `{"error":"source exhausted"}`)

		_, err := usecase.GenerateRandomPatient(context.Background(), "")

		require.Error(t, err)
		assert.Equal(t, 0, backend.CountRequests(http.MethodPost, "/patient"))
	})
}

func TestCreatePendingBill(t *testing.T) {
	t.Run("Uses First Service Price", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		cashPoint := backend.AddCashPoint("Pharmacy")
		backend.AddCashPoint("Lab")
		service := backend.AddService(responses.BillableService{
			Name: "Consultation",
			ServicePrices: []responses.ServicePrice{{
				UUID:  "price-1",
				Name:  "Cash",
				Price: decimal.NewFromInt(30),
			}},
		})
		patient := backend.AddPatient("John", "Smith")

		seeded, err := usecase.CreatePendingBill(context.Background(), patient.UUID)

		require.NoError(t, err)
		assert.NotEmpty(t, seeded.ReceiptNumber)
		assert.Equal(t, service.Name, seeded.ServiceName)
		assert.True(t, decimal.NewFromInt(30).Equal(seeded.Total))

		bill, ok := backend.Bill(seeded.UUID)
		require.True(t, ok)
		assert.Equal(t, constvars.BillStatusPending, bill.Status)
		assert.Equal(t, cashPoint.UUID, bill.CashPoint.UUID)
		assert.Equal(t, openmrstest.CashierUUID, bill.Cashier.UUID)
		require.Len(t, bill.LineItems, 1)
		assert.Equal(t, "price-1", bill.LineItems[0].PriceUUID)
		assert.Equal(t, constvars.BillStatusPending, bill.LineItems[0].PaymentStatus)
		assert.Empty(t, bill.Payments)
	})

	t.Run("Falls Back To Default Price", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.AddCashPoint("Pharmacy")
		backend.AddService(responses.BillableService{Name: "Consultation"})
		patient := backend.AddPatient("John", "Smith")

		seeded, err := usecase.CreatePendingBill(context.Background(), patient.UUID)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(seeded.Total))
		bill, ok := backend.Bill(seeded.UUID)
		require.True(t, ok)
		assert.Equal(t, constvars.DefaultLineItemPriceName, bill.LineItems[0].PriceName)
	})

	t.Run("No Billable Services", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.AddCashPoint("Pharmacy")

		_, err := usecase.CreatePendingBill(context.Background(), "p-1")

		require.Error(t, err)
		assert.Equal(t, "No billable services available for testing", exceptions.MessageOf(err))
		assert.Equal(t, 0, backend.CountRequests(http.MethodPost, "/bill"))
	})

	t.Run("No Cash Points", func(t *testing.T) {
		usecase, _ := newTestUsecase(t)

		_, err := usecase.CreatePendingBill(context.Background(), "p-1")

		require.Error(t, err)
		assert.Equal(t, exceptions.KindFixture, exceptions.KindOf(err))
	})
}

func TestLatestBillForPatient(t *testing.T) {
	t.Run("Returns Newest By Creation Date", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		latest := backend.AddBill(responses.Bill{Patient: responses.ResourceRef{UUID: "p-1"}, Status: constvars.BillStatusPending, DateCreated: "2026-10-15T10:30:00.000+0000"})
		backend.AddBill(responses.Bill{Patient: responses.ResourceRef{UUID: "p-1"}, Status: constvars.BillStatusPaid, DateCreated: "2026-10-15T09:00:00.000+0000"})

		bill, err := usecase.LatestBillForPatient(context.Background(), "p-1")

		require.NoError(t, err)
		assert.Equal(t, latest.UUID, bill.UUID)
	})

	t.Run("First Listed Bill Without Dates", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		first := backend.AddBill(responses.Bill{Patient: responses.ResourceRef{UUID: "p-1"}, Status: constvars.BillStatusPending})
		backend.AddBill(responses.Bill{Patient: responses.ResourceRef{UUID: "p-1"}, Status: constvars.BillStatusPaid})

		bill, err := usecase.LatestBillForPatient(context.Background(), "p-1")

		require.NoError(t, err)
		assert.Equal(t, first.UUID, bill.UUID)
	})

	t.Run("No Bills", func(t *testing.T) {
		usecase, _ := newTestUsecase(t)

		_, err := usecase.LatestBillForPatient(context.Background(), "p-1")

		assert.Equal(t, exceptions.KindAssertion, exceptions.KindOf(err))
	})
}

func TestCleanup(t *testing.T) {
	t.Run("Failed Bill Delete Does Not Stop Others", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		patient := backend.AddPatient("John", "Smith")
		locked := backend.AddBill(responses.Bill{Patient: responses.ResourceRef{UUID: patient.UUID}})
		other := backend.AddBill(responses.Bill{Patient: responses.ResourceRef{UUID: patient.UUID}})
		backend.Fail(http.MethodDelete, "/bill/"+locked.UUID, http.StatusInternalServerError, `{"error":"locked"}`)

		report := usecase.DeletePatient(context.Background(), patient.UUID)

		assert.Equal(t, 3, report.Attempted)
		require.Len(t, report.Failures, 1)
		assert.Contains(t, report.Failures[0].Target, locked.UUID)
		_, ok := backend.Bill(other.UUID)
		assert.False(t, ok)
		_, ok = backend.Patient(patient.UUID)
		assert.False(t, ok)
		assert.Equal(t, 1, backend.CountRequests(http.MethodDelete, "/patient/"+patient.UUID))
	})

	t.Run("List Failure Is Reported Not Raised", func(t *testing.T) {
		usecase, backend := newTestUsecase(t)
		backend.Fail(http.MethodGet, "/bill", http.StatusInternalServerError, `{"error":"boom"}`)

		report := usecase.DeleteAllBillsForPatient(context.Background(), "p-1")

		assert.False(t, report.OK())
		assert.Equal(t, 0, backend.CountRequests(http.MethodDelete, "/bill"))
	})

	t.Run("Missing Bill Is A Warning", func(t *testing.T) {
		usecase, _ := newTestUsecase(t)

		report := usecase.DeleteBill(context.Background(), "missing")

		assert.Equal(t, 1, report.Attempted)
		assert.Len(t, report.Warnings(), 1)
	})
}
