package pages

import (
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/tablerecord"

	"github.com/playwright-community/playwright-go"
)

type InvoiceLineItem struct {
	Item     string
	Quantity string
	Price    string
	Total    string
	// Status is empty when the table has no status column.
	Status string
}

var invoiceLineItemMapping = tablerecord.Mapping{
	{Field: "item", Headers: []string{"Bill item"}},
	{Field: "quantity", Headers: []string{"Quantity"}},
	{Field: "price", Headers: []string{"Price"}},
	{Field: "total", Headers: []string{"Total"}},
	{Field: "status", Headers: []string{"status"}, Optional: true},
}

type InvoicePage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

func NewInvoicePage(page playwright.Page) *InvoicePage {
	return &InvoicePage{
		page:   page,
		expect: assertions(constvars.DefaultUITimeoutInMs),
	}
}

func (p *InvoicePage) InvoiceNumberLabel() playwright.Locator {
	return p.page.GetByText(matching("invoice number"))
}

func (p *InvoicePage) totalAmountLabel() playwright.Locator {
	return p.page.GetByText(matching("total amount")).First()
}

func (p *InvoicePage) amountTenderedLabel() playwright.Locator {
	return p.page.GetByText(matching("amount tendered"))
}

func (p *InvoicePage) amountDueLabel() playwright.Locator {
	return p.page.GetByText(matching("amount due"))
}

func (p *InvoicePage) invoiceStatusLabel() playwright.Locator {
	return p.page.GetByText(matching("invoice status"))
}

func (p *InvoicePage) dateAndTimeLabel() playwright.Locator {
	return p.page.GetByText(matching("date and time"))
}

func (p *InvoicePage) InvoiceTable() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleTable).First()
}

func (p *InvoicePage) Goto(patientUUID, billUUID string) error {
	_, err := p.page.Goto(fmt.Sprintf(constvars.PathBillingInvoiceFormat, patientUUID, billUUID))
	return actionError(err, "open invoice %s", billUUID)
}

// WaitForInvoiceToLoad waits for the line items and then, best effort, for
// the billable services request. Payments submitted before the services
// are loaded cannot be mapped back to service uuids.
func (p *InvoicePage) WaitForInvoiceToLoad() error {
	err := p.InvoiceTable().WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	if err != nil {
		return actionError(err, "wait for invoice")
	}
	return actionError(waitForNetworkIdle(p.page, constvars.InvoiceResponseTimeoutInMs), "wait for billable services")
}

// Reload reloads the invoice and waits for it again.
func (p *InvoicePage) Reload() error {
	if _, err := p.page.Reload(); err != nil {
		return actionError(err, "reload invoice")
	}
	return p.WaitForInvoiceToLoad()
}

func (p *InvoicePage) InvoiceNumber() (string, error) {
	value, err := labelledValue(p.InvoiceNumberLabel())
	return value, actionError(err, "read invoice number")
}

func (p *InvoicePage) TotalAmount() (string, error) {
	value, err := labelledValue(p.totalAmountLabel())
	return value, actionError(err, "read total amount")
}

func (p *InvoicePage) AmountTendered() (string, error) {
	value, err := labelledValue(p.amountTenderedLabel())
	return value, actionError(err, "read amount tendered")
}

func (p *InvoicePage) AmountDue() (string, error) {
	value, err := labelledValue(p.amountDueLabel())
	return value, actionError(err, "read amount due")
}

func (p *InvoicePage) InvoiceStatus() (string, error) {
	return p.InvoiceStatusWithin(constvars.DefaultUITimeoutInMs)
}

// InvoiceStatusWithin is InvoiceStatus bounded by ms instead of the page
// default.
func (p *InvoicePage) InvoiceStatusWithin(ms float64) (string, error) {
	value, err := labelledValueWithin(p.invoiceStatusLabel(), ms)
	return value, actionError(err, "read invoice status")
}

func (p *InvoicePage) DateAndTime() (string, error) {
	value, err := labelledValue(p.dateAndTimeLabel())
	return value, actionError(err, "read date and time")
}

func (p *InvoicePage) VerifyInvoiceNumberVisible() error {
	return actionError(p.expect.Locator(p.InvoiceNumberLabel()).ToBeVisible(), "expect invoice number")
}

func (p *InvoicePage) LineItems() ([]InvoiceLineItem, error) {
	records, err := tableRecords(p.InvoiceTable(), invoiceLineItemMapping)
	if err != nil {
		return nil, actionError(err, "read line items")
	}
	items := make([]InvoiceLineItem, 0, len(records))
	for _, record := range records {
		items = append(items, InvoiceLineItem{
			Item:     record.Get("item"),
			Quantity: record.Get("quantity"),
			Price:    record.Get("price"),
			Total:    record.Get("total"),
			Status:   record.Get("status"),
		})
	}
	return items, nil
}
