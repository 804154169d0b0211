package pages

import (
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/tablerecord"
	"openmrs-billing-e2e/internal/pkg/utils"

	"github.com/playwright-community/playwright-go"
)

type PaymentHistoryRow struct {
	Date           string
	BillAmount     string
	AmountTendered string
	Method         string
}

// The payment history headers are not stable across releases, so columns
// are read by position.
var paymentHistoryRecords = tablerecord.Positional("date", "billAmount", "amountTendered", "method")

// PaymentPage is the payment form below an invoice.
type PaymentPage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

func NewPaymentPage(page playwright.Page) *PaymentPage {
	return &PaymentPage{
		page:   page,
		expect: assertions(constvars.DefaultUITimeoutInMs),
	}
}

func (p *PaymentPage) PaymentMethodCombobox() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleCombobox, playwright.PageGetByRoleOptions{Name: matching("payment method")}).First()
}

func (p *PaymentPage) AmountInput() playwright.Locator {
	return p.page.GetByLabel(matching("amount")).First()
}

func (p *PaymentPage) ReferenceCodeInput() playwright.Locator {
	return p.page.GetByLabel(matching("reference number")).First()
}

func (p *PaymentPage) ProcessPaymentButton() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: matching("process payment")})
}

func (p *PaymentPage) paymentHistoryTable() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleTable).Filter(playwright.LocatorFilterOptions{
		Has: p.page.GetByText(constvars.PaymentHistoryMarker),
	})
}

// WaitForPaymentForm waits for the payment method combobox, which replaces
// the loading skeleton once payment modes are loaded.
func (p *PaymentPage) WaitForPaymentForm() error {
	err := p.PaymentMethodCombobox().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeout(constvars.PaymentFormTimeoutInMs),
	})
	return actionError(err, "wait for payment form")
}

func (p *PaymentPage) VerifyFormFieldsVisible() error {
	for name, locator := range map[string]playwright.Locator{
		"payment method":   p.PaymentMethodCombobox(),
		"amount":           p.AmountInput(),
		"reference number": p.ReferenceCodeInput(),
	} {
		if err := p.expect.Locator(locator).ToBeVisible(); err != nil {
			return actionError(err, "expect %s field", name)
		}
	}
	return nil
}

func (p *PaymentPage) AddPayment(method string, amount float64, referenceCode string) error {
	if err := chooseOption(p.page, p.PaymentMethodCombobox(), matchingLiteral(method)); err != nil {
		return actionError(err, "select payment method %q", method)
	}
	if err := p.AmountInput().Fill(utils.FormatAmount(amount)); err != nil {
		return actionError(err, "enter amount")
	}
	if referenceCode != "" {
		return actionError(p.ReferenceCodeInput().Fill(referenceCode), "enter reference number")
	}
	return nil
}

func (p *PaymentPage) VerifyAmountInput(amount float64) error {
	err := p.expect.Locator(p.AmountInput()).ToHaveValue(utils.FormatAmount(amount))
	return actionError(err, "expect amount %s", utils.FormatAmount(amount))
}

func (p *PaymentPage) ProcessPayment() error {
	return actionError(p.ProcessPaymentButton().Click(), "process payment")
}

func (p *PaymentPage) IsProcessPaymentEnabled() (bool, error) {
	enabled, err := p.ProcessPaymentButton().IsEnabled()
	return enabled, actionError(err, "read process payment state")
}

func (p *PaymentPage) PaymentHistory() ([]PaymentHistoryRow, error) {
	rows, err := bodyRows(p.paymentHistoryTable())
	if err != nil {
		return nil, actionError(err, "read payment history")
	}
	history := make([]PaymentHistoryRow, 0, len(rows))
	for _, record := range paymentHistoryRecords(rows) {
		history = append(history, PaymentHistoryRow{
			Date:           record.Get("date"),
			BillAmount:     record.Get("billAmount"),
			AmountTendered: record.Get("amountTendered"),
			Method:         record.Get("method"),
		})
	}
	return history, nil
}
