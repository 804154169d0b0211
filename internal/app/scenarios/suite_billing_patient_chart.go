package scenarios

import (
	"context"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"strings"
)

const SuiteBillingPatientChart = "billing-patient-chart"

const (
	firstPaymentShare = 0.6
	evenPaymentShare  = 0.5
)

func BillingPatientChartSuite() Suite {
	return Suite{
		Name:        SuiteBillingPatientChart,
		Description: "Bills created in the patient chart: receipt number, quantity increments, split payments",
		Serial:      true,
		BeforeAll:   prepareTestService,
		Cases: []Case{
			{Name: "Create bill, verify receipt number, and process full payment", NeedsPatient: true, Steps: receiptAndFullPayment},
			{Name: "Create bill with increased service quantity and verify totals", NeedsPatient: true, Steps: increasedQuantity},
			{Name: "Process payment with multiple payments", NeedsPatient: true, Steps: multiplePayments},
			{Name: "Create bill with quantity increase and process split payment", NeedsPatient: true, Steps: splitPaymentWithQuantity},
		},
	}
}

func receiptAndFullPayment(w *World) []Step {
	bill := &billUnderTest{}
	return []Step{
		launchBillForm(w),
		addTestService(w),
		verifyGrandTotal(w, 1),
		saveBill(w, bill),
		openInvoice(w, bill),
		verifyPendingInvoice(w, bill),
		{
			Name: "And the invoice number is the receipt number of the bill",
			Run: func(ctx context.Context) error {
				invoiceNumber, err := w.Invoice.InvoiceNumber()
				if err != nil {
					return err
				}
				if bill.ReceiptNumber != "" && !strings.Contains(invoiceNumber, bill.ReceiptNumber) {
					return exceptions.ErrAssertionFailed("invoice number %q does not show receipt %q", invoiceNumber, bill.ReceiptNumber)
				}
				return nil
			},
		},
		payAmountDue(w),
		verifyPaid(w, bill),
		verifySettledAmounts(w),
		verifyPaymentInHistory(w, 1),
	}
}

func increasedQuantity(w *World) []Step {
	const quantity = 3
	bill := &billUnderTest{}
	return []Step{
		launchBillForm(w),
		addTestService(w),
		selectServiceRepeatedly(w, quantity),
		verifyGrandTotal(w, quantity),
		saveBill(w, bill),
		verifyBackendLineItem(w, bill, quantity),
		openInvoice(w, bill),
		verifyInvoiceQuantity(w, quantity),
		payAmountDue(w),
		verifyPaid(w, bill),
		verifyLineItemsPaid(w, bill),
	}
}

// splitPayments pays the amount due in two parts, the first being share of
// it rounded to cents.
func splitPayments(w *World, share float64) []Step {
	var second float64
	return []Step{
		pay(w, "And I record the first payment", func() (float64, error) {
			due, err := w.amountDue()
			if err != nil {
				return 0, err
			}
			first, rest := utils.SplitAmount(due, share)
			second = rest
			return first, nil
		}, ""),
		pay(w, "And I record the second payment", func() (float64, error) {
			return second, nil
		}, ""),
	}
}

func verifyBackendPayments(w *World, bill *billUnderTest) Step {
	return Step{
		Name: "And the backend stores every payment with its payment mode",
		Run: func(ctx context.Context) error {
			saved, err := w.Fixtures.GetBill(ctx, bill.UUID)
			if err != nil {
				return err
			}
			if len(saved.Payments) < 2 {
				return exceptions.ErrAssertionFailed("bill has %d payments, expected at least 2", len(saved.Payments))
			}
			for i, payment := range saved.Payments {
				if payment.InstanceType.Label() == "" {
					return exceptions.ErrAssertionFailed("payment %d has no payment mode", i)
				}
				if !payment.AmountTendered.IsPositive() {
					return exceptions.ErrAssertionFailed("payment %d tendered %s", i, payment.AmountTendered)
				}
			}
			if tendered := saved.Tendered().InexactFloat64(); !utils.ApproxEqual(tendered, saved.Total().InexactFloat64()) {
				return exceptions.ErrAssertionFailed("bill tendered %v of %v", tendered, saved.Total().InexactFloat64())
			}
			return nil
		},
	}
}

func multiplePayments(w *World) []Step {
	bill := &billUnderTest{}
	steps := createBill(w, bill)
	steps = append(steps, openInvoice(w, bill))
	steps = append(steps, splitPayments(w, firstPaymentShare)...)
	return append(steps,
		verifyPaid(w, bill),
		verifyPaymentInHistory(w, 2),
		verifyBackendPayments(w, bill),
		verifySettledAmounts(w),
	)
}

func splitPaymentWithQuantity(w *World) []Step {
	const quantity = 2
	bill := &billUnderTest{}
	steps := []Step{
		launchBillForm(w),
		addTestService(w),
		selectServiceRepeatedly(w, quantity),
		verifyGrandTotal(w, quantity),
		saveBill(w, bill),
		openInvoice(w, bill),
		verifyInvoiceQuantity(w, quantity),
	}
	steps = append(steps, splitPayments(w, evenPaymentShare)...)
	return append(steps,
		verifyPaid(w, bill),
		verifyPaymentInHistory(w, 2),
		verifySettledAmounts(w),
	)
}
