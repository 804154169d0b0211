package requests

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountWireFormat(t *testing.T) {
	t.Run("Service Price Sent As Number", func(t *testing.T) {
		payload, err := json.Marshal(ServicePrice{Name: "Cash", Price: NewAmountFromFloat(30), PaymentMode: "m-1"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Cash","price":30,"paymentMode":"m-1"}`, string(payload))
	})

	t.Run("Line Item And Payment Amounts Sent As Numbers", func(t *testing.T) {
		payload, err := json.Marshal(CreateBill{
			LineItems: []BillLineItem{{Quantity: 2, Price: NewAmount(decimal.RequireFromString("10.25"))}},
			Payments:  []BillPaymentItem{{InstanceType: "i-1", Amount: NewAmountFromFloat(20.5), AmountTendered: NewAmountFromFloat(20.5)}},
		})

		require.NoError(t, err)
		assert.Contains(t, string(payload), `"price":10.25`)
		assert.Contains(t, string(payload), `"amount":20.5`)
		assert.Contains(t, string(payload), `"amountTendered":20.5`)
	})

	t.Run("Quoted And Bare Numbers Decode", func(t *testing.T) {
		var prices []ServicePrice
		require.NoError(t, json.Unmarshal([]byte(`[{"price":"45"},{"price":12.5}]`), &prices))

		require.Len(t, prices, 2)
		assert.True(t, decimal.NewFromInt(45).Equal(prices[0].Price.Decimal))
		assert.True(t, decimal.RequireFromString("12.5").Equal(prices[1].Price.Decimal))
	})
}
