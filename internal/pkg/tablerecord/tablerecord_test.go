package tablerecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineItemMapping = Mapping{
	{Field: "item", Headers: []string{"Bill item"}},
	{Field: "quantity", Headers: []string{"Quantity"}},
	{Field: "price", Headers: []string{"Price"}},
	{Field: "total", Headers: []string{"Total"}},
	{Field: "status", Headers: []string{"status"}, Optional: true},
}

func TestRecords(t *testing.T) {
	t.Run("Columns Resolved By Header", func(t *testing.T) {
		headers := []string{"Bill item", "Bill code", "Service status", "Quantity", "Price", "Total"}
		rows := [][]string{{" Consultation ", "BC-1", " PENDING ", "2", "30.00", "60.00"}}

		records, err := lineItemMapping.Records(headers, rows)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Consultation", records[0].Get("item"))
		assert.Equal(t, "2", records[0].Get("quantity"))
		assert.Equal(t, "60.00", records[0].Get("total"))
		assert.Equal(t, "PENDING", records[0].Get("status"))
	})

	t.Run("Reordered Columns", func(t *testing.T) {
		headers := []string{"Total", "Price", "Quantity", "Bill item"}
		rows := [][]string{{"60.00", "30.00", "2", "Consultation"}}

		records, err := lineItemMapping.Records(headers, rows)

		require.NoError(t, err)
		assert.Equal(t, "Consultation", records[0].Get("item"))
		assert.Equal(t, "30.00", records[0].Get("price"))
	})

	t.Run("Case Insensitive Match", func(t *testing.T) {
		headers := []string{"BILL ITEM", "quantity", "price", "total"}

		indexes, err := lineItemMapping.Resolve(headers)

		require.NoError(t, err)
		assert.Equal(t, 0, indexes["item"])
		assert.Equal(t, -1, indexes["status"])
	})

	t.Run("Missing Required Column", func(t *testing.T) {
		_, err := lineItemMapping.Records([]string{"Bill item", "Quantity", "Price"}, nil)

		assert.Error(t, err)
	})

	t.Run("Short Row Leaves Fields Empty", func(t *testing.T) {
		records, err := lineItemMapping.Records([]string{"Bill item", "Quantity", "Price", "Total"}, [][]string{{"Consultation"}})

		require.NoError(t, err)
		assert.Equal(t, "", records[0].Get("total"))
	})
}

func TestPositional(t *testing.T) {
	records := Positional("date", "billAmount", "amountTendered", "method")([][]string{{"01-Jan-2025", "30.00", "30.00", " Cash "}})

	require.Len(t, records, 1)
	assert.Equal(t, "Cash", records[0].Get("method"))
}
