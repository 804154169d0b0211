package responses

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillableServiceDecoding(t *testing.T) {
	t.Run("Price As Number Or String", func(t *testing.T) {
		body := `{"uuid":"s-1","name":"Consultation","servicePrices":[
			{"name":"Cash","price":30.5,"paymentMode":"m-1"},
			{"name":"Insurance","price":"45.00","paymentMode":{"uuid":"m-2","name":"Insurance"}}
		]}`

		var service BillableService
		require.NoError(t, json.Unmarshal([]byte(body), &service))

		require.Len(t, service.ServicePrices, 2)
		assert.True(t, decimal.RequireFromString("30.5").Equal(service.ServicePrices[0].Price))
		assert.Equal(t, "m-1", service.ServicePrices[0].PaymentMode.UUID)
		assert.True(t, decimal.NewFromInt(45).Equal(service.ServicePrices[1].Price))
		assert.Equal(t, "Insurance", service.ServicePrices[1].PaymentMode.Label())
	})

	t.Run("Price Lookup Is Exact", func(t *testing.T) {
		service := BillableService{ServicePrices: []ServicePrice{{Name: "cash"}, {Name: "Cash"}, {Name: "Cash"}}}

		price, ok := service.PriceNamed("Cash")

		assert.True(t, ok)
		assert.Equal(t, "Cash", price.Name)
		assert.Equal(t, 2, service.CountPricesNamed("Cash"))
	})

	t.Run("Payment Mode Written Back As UUID", func(t *testing.T) {
		payload, err := json.Marshal(ServicePrice{Name: "Cash", Price: decimal.NewFromInt(30), PaymentMode: ResourceRef{UUID: "m-1", Name: "Cash"}})

		require.NoError(t, err)
		assert.Contains(t, string(payload), `"paymentMode":"m-1"`)
	})
}

func TestListResponse(t *testing.T) {
	t.Run("Missing Results Is Empty", func(t *testing.T) {
		var list ListResponse[PaymentMode]
		require.NoError(t, json.Unmarshal([]byte(`{}`), &list))
		assert.Empty(t, list.Results)
	})
}

func TestBillAmounts(t *testing.T) {
	bill := Bill{
		LineItems: []LineItem{
			{Quantity: 2, Price: decimal.NewFromInt(15)},
			{Quantity: 1, Price: decimal.RequireFromString("10.25")},
		},
		Payments: []Payment{
			{AmountTendered: decimal.NewFromInt(20)},
			{AmountTendered: decimal.RequireFromString("5.5")},
		},
	}

	t.Run("Total Multiplies Quantity", func(t *testing.T) {
		assert.Equal(t, "40.25", bill.Total().String())
	})

	t.Run("Tendered Sums Payments", func(t *testing.T) {
		assert.Equal(t, "25.5", bill.Tendered().String())
	})
}

func TestPatientFullName(t *testing.T) {
	t.Run("Display Wins", func(t *testing.T) {
		patient := Patient{Person: Person{Display: "John12 Smith34", Names: []PersonName{{GivenName: "X", FamilyName: "Y"}}}}
		assert.Equal(t, "John12 Smith34", patient.FullName())
	})

	t.Run("Falls Back To Names", func(t *testing.T) {
		patient := Patient{Person: Person{Names: []PersonName{{GivenName: "John12", FamilyName: "Smith34"}}}}
		assert.Equal(t, "John12 Smith34", patient.FullName())
	})
}

func TestNewest(t *testing.T) {
	t.Run("Latest Creation Date Wins", func(t *testing.T) {
		bill, ok := Newest([]Bill{
			{UUID: "b-1", DateCreated: "2026-10-15T09:00:00.000+0000"},
			{UUID: "b-2", DateCreated: "2026-10-15T10:30:00.000+0000"},
			{UUID: "b-3", DateCreated: "2026-10-15T08:45:00.000+0000"},
		})

		assert.True(t, ok)
		assert.Equal(t, "b-2", bill.UUID)
	})

	t.Run("Dated Bill Beats Undated First", func(t *testing.T) {
		bill, _ := Newest([]Bill{{UUID: "b-1"}, {UUID: "b-2", DateCreated: "2026-10-15T09:00:00.000+0000"}})

		assert.Equal(t, "b-2", bill.UUID)
	})

	t.Run("First Listed Without Dates", func(t *testing.T) {
		bill, _ := Newest([]Bill{{UUID: "b-1"}, {UUID: "b-2", DateCreated: "yesterday"}})

		assert.Equal(t, "b-1", bill.UUID)
	})

	t.Run("Empty List", func(t *testing.T) {
		_, ok := Newest(nil)

		assert.False(t, ok)
	})
}
