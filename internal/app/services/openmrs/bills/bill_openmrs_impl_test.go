package bills

import (
	"context"
	"net/http"
	"openmrs-billing-e2e/internal/app/services/openmrs/openmrstest"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBillOpenMRSClient(t *testing.T) {
	for _, prefix := range []string{constvars.BillingModuleBilling, constvars.BillingModuleCashier} {
		t.Run("Lifecycle Under "+prefix, func(t *testing.T) {
			backend := openmrstest.New(prefix)
			defer backend.Close()
			transportClient := transport.NewClient(transport.Config{BaseURL: backend.URL(), Username: "admin", Password: "Admin123"}, zap.NewNop())
			client := NewBillOpenMRSClient(transportClient, prefix, zap.NewNop())
			ctx := context.Background()

			created, err := client.CreateBill(ctx, &requests.CreateBill{
				CashPoint: "cp-1",
				Cashier:   "c-1",
				Patient:   "p-1",
				Status:    constvars.BillStatusPending,
				LineItems: []requests.BillLineItem{{
					BillableService: "s-1",
					Quantity:        2,
					Price:           requests.NewAmount(decimal.NewFromInt(15)),
					PriceName:       "Cash",
					PaymentStatus:   constvars.BillStatusPending,
				}},
			})
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(30).Equal(created.Total()))

			found, err := client.FindBillByID(ctx, created.UUID, true)
			require.NoError(t, err)
			assert.Equal(t, constvars.BillStatusPending, found.Status)

			listed, err := client.ListBillsByPatient(ctx, "p-1")
			require.NoError(t, err)
			require.Len(t, listed, 1)

			require.NoError(t, client.DeleteBill(ctx, created.UUID, true))
			assert.Equal(t, 1, backend.CountRequests(http.MethodDelete, "/"+prefix+"/bill/"+created.UUID))

			_, err = client.FindBillByID(ctx, created.UUID, false)
			assert.Equal(t, http.StatusNotFound, exceptions.UpstreamStatusCode(err))
		})
	}

	t.Run("Patient Filter Uses Full View", func(t *testing.T) {
		backend := openmrstest.New(constvars.BillingModuleBilling)
		defer backend.Close()
		transportClient := transport.NewClient(transport.Config{BaseURL: backend.URL()}, zap.NewNop())
		client := NewBillOpenMRSClient(transportClient, constvars.BillingModuleBilling, zap.NewNop())
		backend.AddBill(responses.Bill{Patient: responses.ResourceRef{UUID: "other"}, Status: constvars.BillStatusPending})

		listed, err := client.ListBillsByPatient(context.Background(), "p-1")

		require.NoError(t, err)
		assert.Empty(t, listed)
		recorded := backend.Requests()
		require.NotEmpty(t, recorded)
		assert.Equal(t, "patient=p-1&v=full", recorded[len(recorded)-1].Query)
	})

	t.Run("Delete Failure Surfaces Raw Body", func(t *testing.T) {
		backend := openmrstest.New(constvars.BillingModuleBilling)
		defer backend.Close()
		transportClient := transport.NewClient(transport.Config{BaseURL: backend.URL()}, zap.NewNop())
		client := NewBillOpenMRSClient(transportClient, constvars.BillingModuleBilling, zap.NewNop())
		backend.Fail(http.MethodDelete, "/bill/b-1", http.StatusInternalServerError, `{"error":"locked"}`)

		err := client.DeleteBill(context.Background(), "b-1", true)

		assert.Equal(t, `Failed to delete bill: {"error":"locked"}`, exceptions.MessageOf(err))
	})
}
