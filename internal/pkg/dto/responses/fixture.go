package responses

import "github.com/shopspring/decimal"

// SeededBill is a bill created directly through the REST API.
type SeededBill struct {
	UUID          string          `json:"uuid"`
	ReceiptNumber string          `json:"receiptNumber"`
	Total         decimal.Decimal `json:"total"`
	ServiceName   string          `json:"serviceName"`
}
