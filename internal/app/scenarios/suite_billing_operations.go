package scenarios

import (
	"context"
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/poll"
	"openmrs-billing-e2e/internal/pkg/utils"
)

const SuiteBillingOperations = "billing-operations"

func BillingOperationsSuite() Suite {
	return Suite{
		Name:        SuiteBillingOperations,
		Description: "Bill form operations: full payment, quantity, discard, line item removal, partial payment",
		Serial:      true,
		BeforeAll:   prepareTestService,
		Cases: []Case{
			{Name: "Create a bill with a single line item and process full payment", NeedsPatient: true, Steps: createAndPayInFull},
			{Name: "Create a bill with quantity update", NeedsPatient: true, Steps: createWithQuantityTwo},
			{Name: "Discard bill without saving", NeedsPatient: true, Steps: discardWithoutSaving},
			{Name: "Remove line item from bill", NeedsPatient: true, Steps: removeLineItem},
			{Name: "Process partial payment and then complete payment", NeedsPatient: true, Steps: partialThenComplete},
		},
	}
}

func createAndPayInFull(w *World) []Step {
	bill := &billUnderTest{}
	return []Step{
		launchBillForm(w),
		addTestService(w),
		verifyGrandTotal(w, 1),
		saveBill(w, bill),
		openInvoice(w, bill),
		verifyPendingInvoice(w, bill),
		payAmountDue(w),
		verifyPaid(w, bill),
		verifyPaymentInHistory(w, 1),
	}
}

func createWithQuantityTwo(w *World) []Step {
	bill := &billUnderTest{}
	return []Step{
		launchBillForm(w),
		addTestService(w),
		{
			Name: "And I update the quantity to 2",
			Run: func(ctx context.Context) error {
				if err := w.Form.VerifyFirstQuantity(1); err != nil {
					return err
				}
				if err := w.Form.FillFirstQuantity(2); err != nil {
					return err
				}
				return w.Form.VerifyFirstQuantity(2)
			},
		},
		saveBill(w, bill),
		openInvoice(w, bill),
		verifyInvoiceQuantity(w, 2),
	}
}

func discardWithoutSaving(w *World) []Step {
	initialCount := 0
	return []Step{
		{
			Name: "Given I check the initial bill count",
			Run: func(ctx context.Context) error {
				bills, err := w.Fixtures.ListBills(ctx, w.Patient.UUID)
				if err != nil {
					return err
				}
				initialCount = len(bills)
				return nil
			},
		},
		launchBillForm(w),
		addTestService(w),
		{
			Name: "When I discard the bill",
			Run: func(ctx context.Context) error {
				if err := w.Form.DiscardBill(); err != nil {
					return err
				}
				return w.Form.WaitForDiscarded()
			},
		},
		{
			Name: "Then no bill is created",
			Run: func(ctx context.Context) error {
				bills, err := w.Fixtures.ListBills(ctx, w.Patient.UUID)
				if err != nil {
					return err
				}
				if len(bills) != initialCount {
					for _, bill := range bills {
						w.TrackBill(bill.UUID)
					}
					return exceptions.ErrAssertionFailed("patient has %d bills after discarding, expected %d", len(bills), initialCount)
				}
				return nil
			},
		},
	}
}

func removeLineItem(w *World) []Step {
	return []Step{
		launchBillForm(w),
		addTestService(w),
		{
			Name: "Then I see one line item and save is enabled",
			Run: func(ctx context.Context) error {
				count, err := w.Form.LineItemsCount()
				if err != nil {
					return err
				}
				if count != 1 {
					return exceptions.ErrAssertionFailed("form shows %d line items, expected 1", count)
				}
				if err := w.Form.VerifyFirstItemCardVisible(); err != nil {
					return err
				}
				return w.Form.VerifySaveEnabled(true)
			},
		},
		{
			Name: "When I remove the line item",
			Run: func(ctx context.Context) error {
				if err := w.Form.RemoveItem(0); err != nil {
					return err
				}
				return poll.Until(ctx, poll.Options{Interval: w.pollInterval(), Timeout: quantityPollTimeout}, func(ctx context.Context) (bool, string, error) {
					count, err := w.Form.LineItemsCount()
					return count == 0, fmt.Sprintf("%d line items", count), err
				})
			},
		},
		{
			Name: "Then the save button is disabled",
			Run: func(ctx context.Context) error {
				return w.Form.VerifySaveEnabled(false)
			},
		},
		{
			Name: "When I discard the form",
			Run: func(ctx context.Context) error {
				return w.Form.DiscardBill()
			},
		},
	}
}

func partialThenComplete(w *World) []Step {
	bill := &billUnderTest{}
	var total, partial float64

	steps := createBill(w, bill)
	return append(steps,
		openInvoice(w, bill),
		pay(w, "And I make a partial payment of half the amount due", func() (float64, error) {
			due, err := w.amountDue()
			if err != nil {
				return 0, err
			}
			total = due
			partial = utils.HalfRounded(due)
			return partial, nil
		}, constvars.PartialReferenceNumberPrefix),
		Step{
			Name: "Then the partial payment is recorded and the bill stays unsettled",
			Run: func(ctx context.Context) error {
				history, err := w.Payment.PaymentHistory()
				if err != nil {
					return err
				}
				if len(history) == 0 {
					return exceptions.ErrAssertionFailed("payment history is empty after a partial payment")
				}
				if err := w.Invoice.Reload(); err != nil {
					return err
				}
				return w.waitForInvoiceStatus(ctx, ExpectedStatus(total, partial))
			},
		},
		Step{
			Name: "And the amount due is reduced by the partial payment",
			Run: func(ctx context.Context) error {
				tendered, err := w.Invoice.AmountTendered()
				if err != nil {
					return err
				}
				if err := expectAmount("amount tendered", tendered, partial); err != nil {
					return err
				}
				due, err := w.Invoice.AmountDue()
				if err != nil {
					return err
				}
				return expectAmount("amount due", due, utils.RoundToCents(total-partial))
			},
		},
		pay(w, "When I complete the remaining payment", w.amountDue, ""),
		verifyPaid(w, bill),
		Step{
			Name: "And the amount due is zero",
			Run: func(ctx context.Context) error {
				due, err := w.Invoice.AmountDue()
				if err != nil {
					return err
				}
				return expectAmount("amount due", due, 0)
			},
		},
	)
}
