package pages

import (
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"strconv"

	"github.com/playwright-community/playwright-go"
)

// BillingFormPage is the bill creation workspace launched from the patient
// chart.
type BillingFormPage struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

func NewBillingFormPage(page playwright.Page) *BillingFormPage {
	return &BillingFormPage{
		page:   page,
		expect: assertions(constvars.DefaultUITimeoutInMs),
	}
}

func (p *BillingFormPage) BillableServicesCombobox() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleCombobox, playwright.PageGetByRoleOptions{Name: matching("search items and services")})
}

// FirstQuantityInput is the quantity field of the first line item, for
// callers that do not know the item uuid.
func (p *BillingFormPage) FirstQuantityInput() playwright.Locator {
	return p.page.Locator(constvars.SelectorNumberInput).First()
}

func (p *BillingFormPage) SelectedItemCards() playwright.Locator {
	return p.page.Locator(constvars.SelectorItemCard)
}

func (p *BillingFormPage) RemoveItemButton() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: matching("remove")})
}

func (p *BillingFormPage) SaveButton() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: matching("save and close")})
}

func (p *BillingFormPage) DiscardButton() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: matching("discard")})
}

func (p *BillingFormPage) GrandTotalLabel() playwright.Locator {
	return p.page.GetByText(matching("grand total"))
}

// LaunchFromBillingHistory opens the billing history of the patient chart
// and launches the bill form from there.
func (p *BillingFormPage) LaunchFromBillingHistory(patientUUID string) error {
	if _, err := p.page.Goto(fmt.Sprintf(constvars.PathPatientBillingFormat, patientUUID)); err != nil {
		return actionError(err, "open billing history")
	}
	err := p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
		Name: matching("launch bill form|add bill"),
	}).Click()
	return actionError(err, "launch bill form")
}

func (p *BillingFormPage) SearchAndSelectBillableService(serviceName string) error {
	combobox := p.BillableServicesCombobox()
	if err := combobox.Click(); err != nil {
		return actionError(err, "focus service search")
	}
	if err := combobox.Fill(serviceName); err != nil {
		return actionError(err, "type service %q", serviceName)
	}
	err := p.page.GetByRole(*playwright.AriaRoleOption, playwright.PageGetByRoleOptions{Name: matchingLiteral(serviceName)}).First().Click()
	return actionError(err, "select service %q", serviceName)
}

// VerifyServiceShown asserts the selected service is rendered in the form.
func (p *BillingFormPage) VerifyServiceShown(serviceName string) error {
	err := p.expect.Locator(p.page.GetByText(serviceName).First()).ToBeVisible()
	return actionError(err, "expect service %q in form", serviceName)
}

// ClearBillableServiceCombobox uses the combobox clear button when it is
// rendered and falls back to select-all and backspace otherwise.
func (p *BillingFormPage) ClearBillableServiceCombobox() error {
	combobox := p.BillableServicesCombobox()
	container := combobox.Locator(constvars.SelectorParent)
	clearButton := container.GetByRole(*playwright.AriaRoleButton, playwright.LocatorGetByRoleOptions{
		Name: matching("clear|close"),
	}).Or(container.Locator(constvars.SelectorClearButtonByAria)).First()

	visible, err := clearButton.IsVisible()
	if err == nil && visible {
		if err := clearButton.Click(); err != nil {
			return actionError(err, "clear service search")
		}
		err = p.expect.Locator(combobox).ToHaveValue("")
		return actionError(err, "expect service search cleared")
	}

	if err := combobox.Click(); err != nil {
		return actionError(err, "focus service search")
	}
	if err := combobox.SelectText(); err != nil {
		return actionError(err, "select service search text")
	}
	if err := combobox.Press("Backspace"); err != nil {
		return actionError(err, "erase service search")
	}
	return actionError(combobox.Press("Escape"), "close service search")
}

func (p *BillingFormPage) FirstQuantityValue() (string, error) {
	value, err := p.FirstQuantityInput().InputValue()
	return value, actionError(err, "read quantity")
}

func (p *BillingFormPage) FillFirstQuantity(quantity int) error {
	return actionError(p.FirstQuantityInput().Fill(strconv.Itoa(quantity)), "set quantity %d", quantity)
}

func (p *BillingFormPage) VerifyFirstQuantity(quantity int) error {
	err := p.expect.Locator(p.FirstQuantityInput()).ToHaveValue(strconv.Itoa(quantity))
	return actionError(err, "expect quantity %d", quantity)
}

// SelectPaymentMethodIfVisible picks a payment method only when the form
// asks for one. An empty name selects Cash.
func (p *BillingFormPage) SelectPaymentMethodIfVisible(paymentMethod string) error {
	if paymentMethod == "" {
		paymentMethod = constvars.PaymentModeCash
	}
	dropdown := p.page.GetByPlaceholder(constvars.PlaceholderSelectPayment).First()
	visible, err := dropdown.IsVisible()
	if err != nil || !visible {
		return nil
	}
	err = chooseOption(p.page, dropdown, matchingLiteral(paymentMethod))
	return actionError(err, "select payment method %q", paymentMethod)
}

// RemoveItem clicks the remove button of the index-th line item. A missing
// button is ignored.
func (p *BillingFormPage) RemoveItem(index int) error {
	buttons, err := p.RemoveItemButton().All()
	if err != nil {
		return actionError(err, "find remove buttons")
	}
	if index < 0 || index >= len(buttons) {
		return nil
	}
	return actionError(buttons[index].Click(), "remove line item %d", index)
}

func (p *BillingFormPage) LineItemsCount() (int, error) {
	count, err := p.SelectedItemCards().Count()
	return count, actionError(err, "count line items")
}

func (p *BillingFormPage) VerifyFirstItemCardVisible() error {
	return actionError(p.expect.Locator(p.SelectedItemCards().First()).ToBeVisible(), "expect line item card")
}

func (p *BillingFormPage) GrandTotal() (string, error) {
	text, err := p.GrandTotalLabel().TextContent()
	return text, actionError(err, "read grand total")
}

func (p *BillingFormPage) VerifyGrandTotal(expected float64) error {
	text, err := p.GrandTotal()
	if err != nil {
		return err
	}
	if actual := utils.ExtractNumericValue(text); !utils.ApproxEqual(actual, expected) {
		return exceptions.ErrAssertionFailed("grand total %q is %v, expected %v", text, actual, expected)
	}
	return nil
}

func (p *BillingFormPage) SaveBill() error {
	return actionError(p.SaveButton().Click(), "save bill")
}

func (p *BillingFormPage) DiscardBill() error {
	return actionError(p.DiscardButton().Click(), "discard bill")
}

func (p *BillingFormPage) VerifySaveEnabled(enabled bool) error {
	button := p.expect.Locator(p.SaveButton())
	if enabled {
		return actionError(button.ToBeEnabled(), "expect save enabled")
	}
	return actionError(button.ToBeDisabled(), "expect save disabled")
}

// WaitForDiscarded waits until the form is closed.
func (p *BillingFormPage) WaitForDiscarded() error {
	return actionError(p.expect.Locator(p.DiscardButton()).ToBeHidden(), "expect bill form closed")
}
