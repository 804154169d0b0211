package pages

import (
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// BillDetails holds the values a scenario expects on the bill details
// screen. Empty fields are not checked, except AmountTendered which is
// checked when CheckTendered is set so that "0" can be asserted.
type BillDetails struct {
	TotalAmount    string
	AmountTendered string
	CheckTendered  bool
	InvoiceNumber  string
	Status         string
}

// BillingPaymentPage drives the bill details screen reached from the
// billing dashboard and its payment form.
type BillingPaymentPage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

func NewBillingPaymentPage(page playwright.Page) *BillingPaymentPage {
	return &BillingPaymentPage{
		page:   page,
		expect: assertions(constvars.DefaultUITimeoutInMs),
	}
}

func (p *BillingPaymentPage) paymentMethodDropdown() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleCombobox).Filter(playwright.LocatorFilterOptions{
		Has: p.page.GetByText(matching(constvars.PlaceholderSelectPayment)),
	})
}

func (p *BillingPaymentPage) amountField() playwright.Locator {
	return p.page.GetByPlaceholder(matching("enter amount"))
}

func (p *BillingPaymentPage) referenceField() playwright.Locator {
	return p.page.GetByPlaceholder(matching("enter reference number"))
}

func (p *BillingPaymentPage) processPaymentButton() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: matching("process payment")})
}

func (p *BillingPaymentPage) paymentsHeading() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleHeading, playwright.PageGetByRoleOptions{Name: matching("payments")})
}

func (p *BillingPaymentPage) patientLink(patientName string) playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleLink, playwright.PageGetByRoleOptions{Name: patientName})
}

func (p *BillingPaymentPage) NavigateToBillingDashboard() error {
	_, err := p.page.Goto(constvars.PathBillingDashboard)
	return actionError(err, "open billing dashboard")
}

func (p *BillingPaymentPage) NavigateToPatientBill(patientUUID, billUUID string) error {
	_, err := p.page.Goto(fmt.Sprintf(constvars.PathBillingInvoiceFormat, patientUUID, billUUID))
	return actionError(err, "open bill %s", billUUID)
}

func (p *BillingPaymentPage) TotalAmount() (string, error) {
	text, err := labelledContainer(p.page.GetByText(matching("total amount")).First())
	return text, actionError(err, "read total amount")
}

func (p *BillingPaymentPage) AmountTendered() (string, error) {
	text, err := labelledContainer(p.page.GetByText(matching("amount tendered")))
	return text, actionError(err, "read amount tendered")
}

func (p *BillingPaymentPage) InvoiceNumber() (string, error) {
	text, err := labelledContainer(p.page.GetByText(matching("invoice number")))
	return text, actionError(err, "read invoice number")
}

func (p *BillingPaymentPage) DateTime() (string, error) {
	text, err := labelledContainer(p.page.GetByText(matching("date and time")))
	return text, actionError(err, "read date and time")
}

// BillStatus reads the status tag next to the "Invoice Status" label.
func (p *BillingPaymentPage) BillStatus() (string, error) {
	return p.BillStatusWithin(constvars.DefaultUITimeoutInMs)
}

// BillStatusWithin is BillStatus bounded by ms instead of the page default.
func (p *BillingPaymentPage) BillStatusWithin(ms float64) (string, error) {
	text, err := p.page.GetByText(matching("invoice status")).First().
		Locator(constvars.SelectorParent).
		TextContent(playwright.LocatorTextContentOptions{Timeout: timeout(ms)})
	if err != nil {
		return "", actionError(err, "read bill status")
	}
	return parseBillStatus(text), nil
}

var billStatusPattern = matching(`\b(` + strings.Join([]string{
	constvars.BillStatusPaid,
	constvars.BillStatusPending,
	constvars.BillStatusPosted,
}, "|") + `)\b`)

// parseBillStatus picks the status out of the label container text. Text
// without a known status is returned trimmed so timeouts can report it.
func parseBillStatus(text string) string {
	if status := billStatusPattern.FindString(text); status != "" {
		return strings.ToUpper(status)
	}
	return strings.TrimSpace(text)
}

func (p *BillingPaymentPage) ScrollToPaymentsSection() error {
	return actionError(p.paymentsHeading().ScrollIntoViewIfNeeded(), "scroll to payments")
}

func (p *BillingPaymentPage) VerifyPaymentMethodDropdownVisible() error {
	return actionError(p.expect.Locator(p.paymentMethodDropdown()).ToBeVisible(), "expect payment method dropdown")
}

func (p *BillingPaymentPage) VerifyAmountFieldVisible() error {
	return actionError(p.expect.Locator(p.amountField()).ToBeVisible(), "expect amount field")
}

func (p *BillingPaymentPage) VerifyReferenceNumberFieldVisible() error {
	return actionError(p.expect.Locator(p.referenceField()).ToBeVisible(), "expect reference number field")
}

func (p *BillingPaymentPage) SelectPaymentMethod(paymentMethod string) error {
	if err := p.paymentMethodDropdown().Click(); err != nil {
		return actionError(err, "open payment methods")
	}
	err := p.page.GetByRole(*playwright.AriaRoleOption, playwright.PageGetByRoleOptions{
		Name:  paymentMethod,
		Exact: playwright.Bool(true),
	}).Click()
	return actionError(err, "select payment method %q", paymentMethod)
}

func (p *BillingPaymentPage) EnterPaymentAmount(amount float64) error {
	field := p.amountField()
	if err := field.Click(); err != nil {
		return actionError(err, "focus amount")
	}
	if err := field.Clear(); err != nil {
		return actionError(err, "clear amount")
	}
	return actionError(field.Fill(utils.FormatAmount(amount)), "enter amount")
}

func (p *BillingPaymentPage) EnterReferenceNumber(referenceNumber string) error {
	return actionError(p.referenceField().Fill(referenceNumber), "enter reference number")
}

// FillPaymentForm selects the method and types the amount, and the
// reference number when one is given.
func (p *BillingPaymentPage) FillPaymentForm(paymentMethod string, amount float64, referenceNumber string) error {
	if err := p.SelectPaymentMethod(paymentMethod); err != nil {
		return err
	}
	if err := p.EnterPaymentAmount(amount); err != nil {
		return err
	}
	if referenceNumber == "" {
		return nil
	}
	return p.EnterReferenceNumber(referenceNumber)
}

func (p *BillingPaymentPage) VerifyProcessPaymentButtonEnabled() error {
	return actionError(p.expect.Locator(p.processPaymentButton()).ToBeEnabled(), "expect process payment enabled")
}

func (p *BillingPaymentPage) VerifyProcessPaymentButtonDisabled() error {
	return actionError(p.expect.Locator(p.processPaymentButton()).ToBeDisabled(), "expect process payment disabled")
}

func (p *BillingPaymentPage) ClickProcessPayment() error {
	return actionError(p.processPaymentButton().Click(), "process payment")
}

func (p *BillingPaymentPage) VerifyBillPaymentSuccessNotification() error {
	notification := p.page.GetByRole(*playwright.AriaRoleStatus).
		Filter(playwright.LocatorFilterOptions{HasText: matching("bill payment")}).
		Filter(playwright.LocatorFilterOptions{HasText: matching(constvars.NotificationPaymentProcessed)})
	err := p.expect.Locator(notification).ToBeVisible(playwright.LocatorAssertionsToBeVisibleOptions{
		Timeout: timeout(constvars.DefaultUITimeoutInMs),
	})
	return actionError(err, "expect payment notification")
}

func (p *BillingPaymentPage) VerifyLineItemStatus(expectedStatus string) error {
	cell := p.page.GetByRole(*playwright.AriaRoleTable).First().GetByText(expectedStatus).First()
	return actionError(p.expect.Locator(cell).ToBeVisible(), "expect line item %s", expectedStatus)
}

func (p *BillingPaymentPage) VerifyPaymentHistoryRecord(paymentMethod string) error {
	cell := p.page.GetByRole(*playwright.AriaRoleTable).Last().GetByText(paymentMethod).First()
	return actionError(p.expect.Locator(cell).ToBeVisible(), "expect payment history %q", paymentMethod)
}

// IsBillPresentInTable is a soft check bounded by BillPresenceTimeoutInMs.
func (p *BillingPaymentPage) IsBillPresentInTable(patientName string) (bool, error) {
	present, err := visibleWithin(p.patientLink(patientName).First(), constvars.BillPresenceTimeoutInMs)
	return present, actionError(err, "look for bill of %q", patientName)
}

func (p *BillingPaymentPage) VerifyBillDetailsDisplayed(expected BillDetails) error {
	checks := []struct {
		name     string
		enabled  bool
		expected string
		read     func() (string, error)
	}{
		{"total amount", expected.TotalAmount != "", expected.TotalAmount, p.TotalAmount},
		{"amount tendered", expected.CheckTendered, expected.AmountTendered, p.AmountTendered},
		{"invoice number", expected.InvoiceNumber != "", expected.InvoiceNumber, p.InvoiceNumber},
		{"status", expected.Status != "", expected.Status, p.BillStatus},
	}
	for _, check := range checks {
		if !check.enabled {
			continue
		}
		actual, err := check.read()
		if err != nil {
			return err
		}
		if !strings.Contains(actual, check.expected) {
			return exceptions.ErrAssertionFailed("%s %q does not contain %q", check.name, actual, check.expected)
		}
	}
	return nil
}
