package constvars

const (
	PathBillingDashboard      = "home/billing"
	PathBillingInvoiceFormat  = "home/billing/patient/%s/%s"
	PathPatientBillingFormat  = "patient/%s/chart/Billing history"
	PathPatientBillingLegacy  = "patient/%s/chart/Billing"
	SelectorTableBodyRows     = "tbody tr"
	SelectorTableHeaderCells  = "thead th"
	SelectorTableCells        = "td"
	SelectorParent            = ".."
	SelectorValueClass        = `[class*="value"]`
	SelectorItemCard          = `[class*="itemCard"]`
	SelectorNumberInput       = `input[type="number"]`
	SelectorBody              = "body"
	SelectorSuccessClass      = `[class*="success"]`
	SelectorClearButtonByAria = `button[aria-label*="clear" i]`
)

const (
	FilterAllBills     = "All bills"
	FilterPendingBills = "Pending bills"
	FilterPaidBills    = "Paid bills"
)

const (
	NotificationBillProcessed    = "Bill processed successfully"
	NotificationPaymentProcessed = "Payment processed successfully"
	PlaceholderSelectPayment     = "Select payment method"
	PaymentHistoryMarker         = "Date of payment"
)

const (
	DefaultUITimeoutInMs       = 10000
	PaymentFormTimeoutInMs     = 30000
	BillPresenceTimeoutInMs    = 5000
	TableResponseTimeoutInMs   = 10000
	InvoiceResponseTimeoutInMs = 5000
)
