package scenarios

import (
	"context"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/pages"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"strings"
)

const SuiteProcessBillPayment = "process-bill-payment"

// ProcessBillPaymentSuite pays bills seeded directly through the REST API,
// so a failure here points at the payment screens rather than bill entry.
func ProcessBillPaymentSuite() Suite {
	return Suite{
		Name:        SuiteProcessBillPayment,
		Description: "Pay API seeded bills from the bill details screen: full, gated and partial payments",
		BeforeAll:   resolvePaymentMode,
		Cases: []Case{
			{Name: "Process bill payment and update status from PENDING to PAID", NeedsPatient: true, Steps: fullPaymentOfSeededBill},
			{Name: "Process payment stays disabled when the amount is missing", NeedsPatient: true, Steps: paymentWithoutAmount},
			{Name: "Partial payment keeps the bill pending", NeedsPatient: true, Steps: partialPaymentOfSeededBill},
		},
	}
}

func resolvePaymentMode(ctx context.Context, fixtures contracts.FixtureUsecase, internalConfig *config.InternalConfig) (*SuiteState, error) {
	mode, err := fixtures.FindPaymentMode(ctx, internalConfig.Fixture.PaymentMode)
	if err != nil {
		return nil, err
	}
	return &SuiteState{PaymentMode: mode.Name}, nil
}

func seedPendingBill(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "Given a pending bill created through the API",
		Run: func(ctx context.Context) error {
			seeded, err := w.Fixtures.CreatePendingBill(ctx, w.Patient.UUID)
			if err != nil {
				return err
			}
			w.TrackBill(seeded.UUID)
			bill.UUID = seeded.UUID
			bill.ReceiptNumber = seeded.ReceiptNumber
			bill.Total = seeded.Total.InexactFloat64()
			return nil
		},
	}
}

func openBillDetails(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "When I open the bill details page",
		Run: func(ctx context.Context) error {
			if err := w.BillPayment.NavigateToPatientBill(w.Patient.UUID, bill.UUID); err != nil {
				return err
			}
			return w.Invoice.VerifyInvoiceNumberVisible()
		},
	}
}

func scrollToPayments(w *World) Step {
	return Step{
		Name: "And I scroll to the Payments section",
		Run: func(ctx context.Context) error {
			return w.BillPayment.ScrollToPaymentsSection()
		},
	}
}

func submitPayment(w *World, amount func() float64, referencePrefix string) Step {
	return Step{
		Name: "When I fill in the payment and click Process payment",
		Run: func(ctx context.Context) error {
			if err := w.BillPayment.FillPaymentForm(w.Suite.PaymentMode, amount(), utils.GenerateReferenceNumber(referencePrefix)); err != nil {
				return err
			}
			if err := w.BillPayment.VerifyProcessPaymentButtonEnabled(); err != nil {
				return err
			}
			if err := w.BillPayment.ClickProcessPayment(); err != nil {
				return err
			}
			return w.BillPayment.VerifyBillPaymentSuccessNotification()
		},
	}
}

func expectTendered(w *World, expected func() float64) Step {
	return Step{
		Name: "And the amount tendered reflects the payment",
		Run: func(ctx context.Context) error {
			tendered, err := w.BillPayment.AmountTendered()
			if err != nil {
				return err
			}
			return expectAmount("amount tendered", tendered, expected())
		},
	}
}

func fullPaymentOfSeededBill(w *World) []Step {
	bill := &billUnderTest{}
	return []Step{
		seedPendingBill(w, bill),
		{
			Name: "When I navigate to the Billing dashboard",
			Run: func(ctx context.Context) error {
				if err := w.BillPayment.NavigateToBillingDashboard(); err != nil {
					return err
				}
				return w.Dashboard.WaitForBillsTableToLoad()
			},
		},
		openBillDetails(w, bill),
		{
			Name: "Then I see the bill details with status PENDING",
			Run: func(ctx context.Context) error {
				err := w.BillPayment.VerifyBillDetailsDisplayed(pages.BillDetails{
					InvoiceNumber: bill.ReceiptNumber,
					Status:        constvars.BillStatusPending,
				})
				if err != nil {
					return err
				}
				total, err := w.BillPayment.TotalAmount()
				if err != nil {
					return err
				}
				if err := expectAmount("total amount", total, bill.Total); err != nil {
					return err
				}
				tendered, err := w.BillPayment.AmountTendered()
				if err != nil {
					return err
				}
				if err := expectAmount("amount tendered", tendered, 0); err != nil {
					return err
				}
				dateTime, err := w.BillPayment.DateTime()
				if err != nil {
					return err
				}
				if strings.TrimSpace(dateTime) == "" {
					return exceptions.ErrAssertionFailed("date and time is empty")
				}
				return nil
			},
		},
		scrollToPayments(w),
		{
			Name: "Then I see the payment method, amount and reference number fields",
			Run: func(ctx context.Context) error {
				if err := w.BillPayment.VerifyPaymentMethodDropdownVisible(); err != nil {
					return err
				}
				if err := w.BillPayment.VerifyAmountFieldVisible(); err != nil {
					return err
				}
				return w.BillPayment.VerifyReferenceNumberFieldVisible()
			},
		},
		submitPayment(w, func() float64 { return bill.Total }, constvars.ReferenceNumberPrefix),
		{
			Name: "Then the invoice status changes to PAID",
			Run: func(ctx context.Context) error {
				return w.waitForDisplayedStatus(ctx, constvars.BillStatusPaid)
			},
		},
		expectTendered(w, func() float64 { return bill.Total }),
		{
			Name: "And the line item status is PAID",
			Skip: upstreamLineItemStatus,
			Run: func(ctx context.Context) error {
				return w.BillPayment.VerifyLineItemStatus(constvars.BillStatusPaid)
			},
		},
		{
			Name: "And the payment history shows the payment method",
			Run: func(ctx context.Context) error {
				return w.BillPayment.VerifyPaymentHistoryRecord(w.Suite.PaymentMode)
			},
		},
		{
			Name: "When I navigate back to the Billing dashboard",
			Run: func(ctx context.Context) error {
				if err := w.BillPayment.NavigateToBillingDashboard(); err != nil {
					return err
				}
				return w.Dashboard.WaitForBillsTableToLoad()
			},
		},
		{
			Name: "Then the paid bill is no longer in the pending list",
			Run: func(ctx context.Context) error {
				present, err := w.BillPayment.IsBillPresentInTable(w.Patient.FullName())
				if err != nil {
					return err
				}
				if present {
					return exceptions.ErrAssertionFailed("bill of %q is still listed as pending", w.Patient.FullName())
				}
				return nil
			},
		},
	}
}

func paymentWithoutAmount(w *World) []Step {
	bill := &billUnderTest{}
	return []Step{
		seedPendingBill(w, bill),
		openBillDetails(w, bill),
		scrollToPayments(w),
		{
			Name: "When I select a payment method without entering an amount",
			Run: func(ctx context.Context) error {
				return w.BillPayment.SelectPaymentMethod(w.Suite.PaymentMode)
			},
		},
		{
			Name: "Then the Process payment button stays disabled",
			Run: func(ctx context.Context) error {
				return w.BillPayment.VerifyProcessPaymentButtonDisabled()
			},
		},
	}
}

func partialPaymentOfSeededBill(w *World) []Step {
	bill := &billUnderTest{}
	partial := func() float64 { return utils.HalfFloor(bill.Total) }
	return []Step{
		seedPendingBill(w, bill),
		openBillDetails(w, bill),
		scrollToPayments(w),
		submitPayment(w, partial, constvars.PartialReferenceNumberPrefix),
		{
			Name: "Then the bill status remains PENDING",
			Run: func(ctx context.Context) error {
				return w.waitForDisplayedStatus(ctx, constvars.BillStatusPending)
			},
		},
		expectTendered(w, partial),
	}
}
