package scenarios

import (
	"context"
	"fmt"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/pages"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/poll"
	"openmrs-billing-e2e/internal/pkg/utils"
	"strconv"
	"strings"
	"time"
)

// upstreamLineItemStatus is the billing module issue that keeps line item
// payment statuses from following the bill.
const upstreamLineItemStatus = "line item status is not updated after payment (O3-5394)"

const quantityPollTimeout = 5 * time.Second

// billUnderTest is the bill a case created and the amounts it expects.
type billUnderTest struct {
	UUID          string
	ReceiptNumber string
	Total         float64
}

// prepareTestService makes sure the configured service carries a price for
// the payment mode and records that price for the suite.
func prepareTestService(ctx context.Context, fixtures contracts.FixtureUsecase, internalConfig *config.InternalConfig) (*SuiteState, error) {
	serviceUUID, err := internalConfig.TestService()
	if err != nil {
		return nil, err
	}
	service, err := fixtures.EnsureServiceHasPrices(ctx, serviceUUID, internalConfig.Fixture.DefaultCashPrice)
	if err != nil {
		return nil, err
	}
	price, ok := service.PriceNamed(internalConfig.Fixture.PaymentMode)
	if !ok {
		return nil, exceptions.ErrServicePriceNotFound(internalConfig.Fixture.PaymentMode)
	}
	return &SuiteState{
		Service:     service,
		ServiceName: service.Name,
		Price:       price.Price.InexactFloat64(),
		PaymentMode: internalConfig.Fixture.PaymentMode,
	}, nil
}

func launchBillForm(w *World) Step {
	return Step{
		Name: "When I launch the bill form from the billing history",
		Run: func(ctx context.Context) error {
			return w.Form.LaunchFromBillingHistory(w.Patient.UUID)
		},
	}
}

func addTestService(w *World) Step {
	return Step{
		Name: "And I add the test billable service",
		Run: func(ctx context.Context) error {
			if err := w.Form.SearchAndSelectBillableService(w.Suite.ServiceName); err != nil {
				return err
			}
			if err := w.Form.VerifyServiceShown(w.Suite.ServiceName); err != nil {
				return err
			}
			return w.Form.SelectPaymentMethodIfVisible(w.Suite.PaymentMode)
		},
	}
}

func verifyGrandTotal(w *World, quantity int) Step {
	return Step{
		Name: fmt.Sprintf("Then the grand total is %d times the service price", quantity),
		Run: func(ctx context.Context) error {
			return w.Form.VerifyGrandTotal(w.Suite.Price * float64(quantity))
		},
	}
}

// saveBill saves the form and resolves the uuid of the new bill through
// the API so it can be deleted afterwards.
func saveBill(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "When I save the bill",
		Run: func(ctx context.Context) error {
			if err := w.Form.SaveBill(); err != nil {
				return err
			}
			if err := pages.WaitForSuccessNotification(w.Page, constvars.NotificationBillProcessed); err != nil {
				return err
			}
			saved, err := w.Fixtures.LatestBillForPatient(ctx, w.Patient.UUID)
			if err != nil {
				return err
			}
			w.TrackBill(saved.UUID)
			bill.UUID = saved.UUID
			bill.ReceiptNumber = saved.ReceiptNumber
			bill.Total = saved.Total().InexactFloat64()
			return nil
		},
	}
}

// createBill is the usual way a case gets its bill: form, service, save.
func createBill(w *World, bill *billUnderTest) []Step {
	return []Step{launchBillForm(w), addTestService(w), saveBill(w, bill)}
}

func openInvoice(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "When I navigate to the invoice page",
		Run: func(ctx context.Context) error {
			if err := w.Invoice.Goto(w.Patient.UUID, bill.UUID); err != nil {
				return err
			}
			return w.Invoice.WaitForInvoiceToLoad()
		},
	}
}

func (w *World) amountDue() (float64, error) {
	text, err := w.Invoice.AmountDue()
	if err != nil {
		return 0, err
	}
	return utils.ExtractNumericValue(text), nil
}

func expectAmount(name, text string, expected float64) error {
	if actual := utils.ExtractNumericValue(text); !utils.ApproxEqual(actual, expected) {
		return exceptions.ErrAssertionFailed("%s %q is %v, expected %v", name, text, actual, expected)
	}
	return nil
}

// verifyPendingInvoice checks the initial state of a saved bill: pending,
// priced as expected, nothing tendered, everything due.
func verifyPendingInvoice(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "Then I see the invoice details with the initial state",
		Run: func(ctx context.Context) error {
			status, err := w.Invoice.InvoiceStatus()
			if err != nil {
				return err
			}
			if !strings.EqualFold(status, constvars.BillStatusPending) {
				return exceptions.ErrAssertionFailed("invoice status is %q, expected %s", status, constvars.BillStatusPending)
			}
			invoiceNumber, err := w.Invoice.InvoiceNumber()
			if err != nil {
				return err
			}
			if invoiceNumber == "" {
				return exceptions.ErrAssertionFailed("invoice number is empty")
			}
			total, err := w.Invoice.TotalAmount()
			if err != nil {
				return err
			}
			if err := expectAmount("total amount", total, bill.Total); err != nil {
				return err
			}
			due, err := w.Invoice.AmountDue()
			if err != nil {
				return err
			}
			return expectAmount("amount due", due, bill.Total)
		},
	}
}

// pay records one payment through the invoice payment form. amount is read
// when the step runs so it can depend on earlier steps.
func pay(w *World, name string, amount func() (float64, error), referencePrefix string) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context) error {
			if err := w.Payment.WaitForPaymentForm(); err != nil {
				return err
			}
			value, err := amount()
			if err != nil {
				return err
			}
			reference := ""
			if referencePrefix != "" {
				reference = utils.GenerateReferenceNumber(referencePrefix)
			}
			if err := w.Payment.AddPayment(w.Suite.PaymentMode, value, reference); err != nil {
				return err
			}
			if err := w.Payment.ProcessPayment(); err != nil {
				return err
			}
			return pages.WaitForSuccessNotification(w.Page, constvars.NotificationPaymentProcessed)
		},
	}
}

func payAmountDue(w *World) Step {
	return pay(w, "When I process the full amount due", w.amountDue, "")
}

// verifyPaid reloads the invoice and waits for PAID both on screen and in
// the bill resource.
func verifyPaid(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "Then the bill is marked as PAID",
		Run: func(ctx context.Context) error {
			if err := w.Invoice.Reload(); err != nil {
				return err
			}
			if err := w.waitForInvoiceStatus(ctx, constvars.BillStatusPaid); err != nil {
				return err
			}
			_, err := w.waitForBackendStatus(ctx, bill.UUID, constvars.BillStatusPaid)
			return err
		},
	}
}

func verifySettledAmounts(w *World) Step {
	return Step{
		Name: "And the amount tendered equals the total with nothing due",
		Run: func(ctx context.Context) error {
			total, err := w.Invoice.TotalAmount()
			if err != nil {
				return err
			}
			tendered, err := w.Invoice.AmountTendered()
			if err != nil {
				return err
			}
			if err := expectAmount("amount tendered", tendered, utils.ExtractNumericValue(total)); err != nil {
				return err
			}
			due, err := w.Invoice.AmountDue()
			if err != nil {
				return err
			}
			return expectAmount("amount due", due, 0)
		},
	}
}

func verifyLineItemsPaid(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "And every line item is marked as PAID",
		Skip: upstreamLineItemStatus,
		Run: func(ctx context.Context) error {
			items, err := w.Invoice.LineItems()
			if err != nil {
				return err
			}
			for _, item := range items {
				if !strings.EqualFold(item.Status, constvars.BillStatusPaid) {
					return exceptions.ErrAssertionFailed("line item %q is %q, expected %s", item.Item, item.Status, constvars.BillStatusPaid)
				}
			}
			saved, err := w.Fixtures.GetBill(ctx, bill.UUID)
			if err != nil {
				return err
			}
			for _, item := range saved.LineItems {
				if item.PaymentStatus != constvars.BillStatusPaid {
					return exceptions.ErrAssertionFailed("backend line item %q is %q, expected %s", item.Item, item.PaymentStatus, constvars.BillStatusPaid)
				}
			}
			return nil
		},
	}
}

func verifyPaymentInHistory(w *World, minimum int) Step {
	return Step{
		Name: "And the payment appears in the history",
		Run: func(ctx context.Context) error {
			history, err := w.Payment.PaymentHistory()
			if err != nil {
				return err
			}
			if len(history) < minimum {
				return exceptions.ErrAssertionFailed("payment history has %d rows, expected at least %d", len(history), minimum)
			}
			if !strings.Contains(strings.ToLower(history[0].Method), strings.ToLower(w.Suite.PaymentMode)) {
				return exceptions.ErrAssertionFailed("payment method is %q, expected %s", history[0].Method, w.Suite.PaymentMode)
			}
			return nil
		},
	}
}

// selectServiceRepeatedly selects the test service quantity times. Every
// reselection of an already billed service increments its quantity.
func selectServiceRepeatedly(w *World, quantity int) Step {
	return Step{
		Name: fmt.Sprintf("And I select the same service %d times to increment the quantity", quantity),
		Run: func(ctx context.Context) error {
			if err := w.Form.VerifyFirstQuantity(1); err != nil {
				return err
			}
			for i := 1; i < quantity; i++ {
				if err := w.Form.ClearBillableServiceCombobox(); err != nil {
					return err
				}
				if err := w.Form.SearchAndSelectBillableService(w.Suite.ServiceName); err != nil {
					return err
				}
				want := strconv.Itoa(i + 1)
				err := poll.Until(ctx, poll.Options{Interval: w.pollInterval(), Timeout: quantityPollTimeout}, func(ctx context.Context) (bool, string, error) {
					value, err := w.Form.FirstQuantityValue()
					return value == want, fmt.Sprintf("quantity %q", value), err
				})
				if err != nil {
					return err
				}
			}
			return w.Form.VerifyFirstQuantity(quantity)
		},
	}
}

func verifyBackendLineItem(w *World, bill *billUnderTest, quantity int) Step {
	return Step{
		Name: "Then the bill is stored with one line item of the expected quantity",
		Run: func(ctx context.Context) error {
			saved, err := w.Fixtures.GetBill(ctx, bill.UUID)
			if err != nil {
				return err
			}
			if len(saved.LineItems) != 1 {
				return exceptions.ErrAssertionFailed("bill has %d line items, expected 1", len(saved.LineItems))
			}
			item := saved.LineItems[0]
			if item.BillableService.UUID == "" && item.BillableService.Label() == "" {
				return exceptions.ErrAssertionFailed("line item has no billable service")
			}
			if item.Quantity != quantity {
				return exceptions.ErrAssertionFailed("line item quantity is %d, expected %d", item.Quantity, quantity)
			}
			if price := item.Price.InexactFloat64(); !utils.ApproxEqual(price, w.Suite.Price) {
				return exceptions.ErrAssertionFailed("line item price is %v, expected %v", price, w.Suite.Price)
			}
			if total := saved.Total().InexactFloat64(); !utils.ApproxEqual(total, w.Suite.Price*float64(quantity)) {
				return exceptions.ErrAssertionFailed("bill total is %v, expected %v", total, w.Suite.Price*float64(quantity))
			}
			return nil
		},
	}
}

func verifyInvoiceQuantity(w *World, quantity int) Step {
	return Step{
		Name: fmt.Sprintf("Then the invoice shows the line item with quantity %d", quantity),
		Run: func(ctx context.Context) error {
			items, err := w.Invoice.LineItems()
			if err != nil {
				return err
			}
			if len(items) != 1 {
				return exceptions.ErrAssertionFailed("invoice shows %d line items, expected 1", len(items))
			}
			if items[0].Quantity != strconv.Itoa(quantity) {
				return exceptions.ErrAssertionFailed("invoice quantity is %q, expected %d", items[0].Quantity, quantity)
			}
			total, err := w.Invoice.TotalAmount()
			if err != nil {
				return err
			}
			return expectAmount("total amount", total, w.Suite.Price*float64(quantity))
		},
	}
}

// verifyListedBill reads the bill list by its headers and checks the row of
// the case patient, and its billed items when the column is rendered.
func (w *World) verifyListedBill() error {
	rows, err := w.Dashboard.BillsInTable()
	if err != nil {
		return err
	}
	serviceName := ""
	if w.Suite != nil {
		serviceName = w.Suite.ServiceName
	}
	return checkListedBill(rows, w.Patient.FullName(), serviceName)
}

func checkListedBill(rows []pages.BillRow, patientName, serviceName string) error {
	row, ok := pages.FindBillRow(rows, patientName)
	if !ok {
		return exceptions.ErrAssertionFailed("no bill of %q among %d listed bills", patientName, len(rows))
	}
	if row.BilledItems == "" || serviceName == "" {
		return nil
	}
	if !strings.Contains(strings.ToLower(row.BilledItems), strings.ToLower(serviceName)) {
		return exceptions.ErrAssertionFailed("bill of %q lists %q, expected %q", patientName, row.BilledItems, serviceName)
	}
	return nil
}
