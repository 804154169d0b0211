package scenarios

import (
	"context"
	"openmrs-billing-e2e/internal/app/pages"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"strings"
)

const SuiteBillingDashboard = "billing-dashboard"

func BillingDashboardSuite() Suite {
	return Suite{
		Name:        SuiteBillingDashboard,
		Description: "Create a bill in the patient chart and settle it from the billing dashboard",
		Serial:      true,
		BeforeAll:   prepareTestService,
		Cases: []Case{
			{Name: "Pay a pending bill from the billing dashboard", NeedsPatient: true, Steps: dashboardPayment},
		},
	}
}

func dashboardPayment(w *World) []Step {
	bill := &billUnderTest{}
	var amountDue float64

	steps := createBill(w, bill)
	return append(steps,
		Step{
			Name: "When I open the billing dashboard",
			Run: func(ctx context.Context) error {
				if err := w.Dashboard.Goto(); err != nil {
					return err
				}
				if err := w.Dashboard.WaitForBillsTableToLoad(); err != nil {
					return err
				}
				if err := w.Dashboard.VerifyFilterVisible(); err != nil {
					return err
				}
				return w.Dashboard.VerifyBillInTable(w.Patient.FullName(), true)
			},
		},
		Step{
			Name: "And I open the bill from the patient name link",
			Run: func(ctx context.Context) error {
				if err := w.Dashboard.ClickPatientNameLink(w.Patient.FullName()); err != nil {
					return err
				}
				return w.Invoice.WaitForInvoiceToLoad()
			},
		},
		Step{
			Name: "Then the invoice shows a pending bill at the service price",
			Run: func(ctx context.Context) error {
				total, err := w.Invoice.TotalAmount()
				if err != nil {
					return err
				}
				if err := expectAmount("total amount", total, w.Suite.Price); err != nil {
					return err
				}
				tendered, err := w.Invoice.AmountTendered()
				if err != nil {
					return err
				}
				if err := expectAmount("amount tendered", tendered, 0); err != nil {
					return err
				}
				for name, read := range map[string]func() (string, error){
					"invoice number": w.Invoice.InvoiceNumber,
					"date and time":  w.Invoice.DateAndTime,
				} {
					value, err := read()
					if err != nil {
						return err
					}
					if value == "" {
						return exceptions.ErrAssertionFailed("%s is empty", name)
					}
				}
				status, err := w.Invoice.InvoiceStatus()
				if err != nil {
					return err
				}
				if !strings.EqualFold(status, constvars.BillStatusPending) {
					return exceptions.ErrAssertionFailed("invoice status is %q, expected %s", status, constvars.BillStatusPending)
				}
				return nil
			},
		},
		Step{
			Name: "And the payment form is shown",
			Run: func(ctx context.Context) error {
				if err := w.Payment.WaitForPaymentForm(); err != nil {
					return err
				}
				return w.Payment.VerifyFormFieldsVisible()
			},
		},
		Step{
			Name: "When I add a payment for the amount due",
			Run: func(ctx context.Context) error {
				due, err := w.amountDue()
				if err != nil {
					return err
				}
				amountDue = due
				if err := w.Payment.AddPayment(w.Suite.PaymentMode, amountDue, ""); err != nil {
					return err
				}
				if err := w.Payment.VerifyAmountInput(amountDue); err != nil {
					return err
				}
				enabled, err := w.Payment.IsProcessPaymentEnabled()
				if err != nil {
					return err
				}
				if !enabled {
					return exceptions.ErrAssertionFailed("process payment is disabled with %s %s entered", w.Suite.PaymentMode, utils.FormatAmount(amountDue))
				}
				return nil
			},
		},
		Step{
			Name: "And I process the payment",
			Run: func(ctx context.Context) error {
				if err := w.Payment.ProcessPayment(); err != nil {
					return err
				}
				return pages.WaitForSuccessNotification(w.Page, constvars.NotificationPaymentProcessed)
			},
		},
		verifyPaid(w, bill),
		verifySettledAmounts(w),
		verifyLineItemsPaid(w, bill),
		verifyPaymentInHistory(w, 1),
		Step{
			Name: "And the bill moves from the pending to the paid bills",
			Run: func(ctx context.Context) error {
				if err := w.Dashboard.Goto(); err != nil {
					return err
				}
				if err := w.Dashboard.WaitForBillsTableToLoad(); err != nil {
					return err
				}
				if err := w.Dashboard.VerifyBillInTable(w.Patient.FullName(), false); err != nil {
					return err
				}
				if err := w.Dashboard.SelectFilter(constvars.FilterPaidBills); err != nil {
					return err
				}
				if err := w.Dashboard.WaitForBillsTableToLoad(); err != nil {
					return err
				}
				if err := w.Dashboard.VerifyBillInTable(w.Patient.FullName(), true); err != nil {
					return err
				}
				return w.verifyListedBill()
			},
		},
	)
}
