package scenarios

import (
	"context"
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/poll"
	"strings"
	"time"
)

// ExpectedStatus is the status a bill settles in once tendered has been
// paid against total. Amounts are compared at cent precision.
func ExpectedStatus(total, tendered float64) string {
	if tendered+0.005 >= total {
		return constvars.BillStatusPaid
	}
	return constvars.BillStatusPending
}

// IsUnsettled reports whether status means money is still due. Depending on
// the billing module release a partially paid bill is PENDING or POSTED.
func IsUnsettled(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case constvars.BillStatusPending, constvars.BillStatusPosted:
		return true
	}
	return false
}

func statusMatches(status, expected string) bool {
	if expected == constvars.BillStatusPending {
		return IsUnsettled(status)
	}
	return strings.Contains(strings.ToUpper(status), expected)
}

// remainingMs bounds a single page read by what is left of the poll budget.
// Playwright reads 0 as no timeout, so the result is at least 1ms.
func remainingMs(ctx context.Context) float64 {
	ms := poll.Remaining(ctx, constvars.DefaultUITimeoutInMs*time.Millisecond).Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return float64(ms)
}

// waitForDisplayedStatus polls the status tag of the bill details screen.
func (w *World) waitForDisplayedStatus(ctx context.Context, expected string) error {
	return poll.Until(ctx, poll.Options{Interval: w.pollInterval(), Timeout: w.statusTimeout()}, func(ctx context.Context) (bool, string, error) {
		status, err := w.BillPayment.BillStatusWithin(remainingMs(ctx))
		if err != nil {
			return false, "", err
		}
		return statusMatches(status, expected), fmt.Sprintf("displayed status %q", status), nil
	})
}

// waitForInvoiceStatus polls the invoice status value.
func (w *World) waitForInvoiceStatus(ctx context.Context, expected string) error {
	return poll.Until(ctx, poll.Options{Interval: w.pollInterval(), Timeout: w.statusTimeout()}, func(ctx context.Context) (bool, string, error) {
		status, err := w.Invoice.InvoiceStatusWithin(remainingMs(ctx))
		if err != nil {
			return false, "", err
		}
		return statusMatches(status, expected), fmt.Sprintf("invoice status %q", status), nil
	})
}

// waitForBackendStatus polls the bill resource until it reports expected and
// returns the last bill read.
func (w *World) waitForBackendStatus(ctx context.Context, billUUID, expected string) (*responses.Bill, error) {
	return poll.Value(ctx, poll.Options{Interval: w.pollInterval(), Timeout: w.statusTimeout()},
		func(ctx context.Context) (*responses.Bill, error) {
			return w.Fixtures.GetBill(ctx, billUUID)
		},
		func(bill *responses.Bill) bool {
			return statusMatches(bill.Status, expected)
		},
		func(bill *responses.Bill) string {
			return fmt.Sprintf("bill %s status %q", billUUID, bill.Status)
		},
	)
}
