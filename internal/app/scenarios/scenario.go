// Package scenarios holds the billing workflow suites and the runner that
// executes them step by step against a live OpenMRS.
package scenarios

import (
	"context"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/pages"
	"openmrs-billing-e2e/internal/pkg/cleanup"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Step is one named, independently reported stage of a case.
type Step struct {
	Name string
	// Skip holds the reason when the step is known to fail upstream. The
	// step is reported and the case goes on.
	Skip string
	Run  func(ctx context.Context) error
}

// Case builds its steps from the world it runs in. Steps of one case share
// state through the closure that Steps returns them from.
type Case struct {
	Name string
	// Skip holds the reason when the case is known to fail upstream.
	Skip         string
	NeedsPatient bool
	Steps        func(w *World) []Step
}

type Suite struct {
	Name        string
	Description string
	// Serial suites run their cases one by one and hold a suite lock.
	Serial    bool
	BeforeAll func(ctx context.Context, fixtures contracts.FixtureUsecase, internalConfig *config.InternalConfig) (*SuiteState, error)
	Cases     []Case
}

// SuiteState is what BeforeAll resolved once for all cases of a suite.
type SuiteState struct {
	Service     *responses.BillableService
	ServiceName string
	Price       float64
	PaymentMode string
}

// World is everything a case can touch while it runs.
type World struct {
	Page        playwright.Page
	Dashboard   *pages.BillingDashboardPage
	Form        *pages.BillingFormPage
	Invoice     *pages.InvoicePage
	Payment     *pages.PaymentPage
	BillPayment *pages.BillingPaymentPage

	Fixtures       contracts.FixtureUsecase
	InternalConfig *config.InternalConfig
	Suite          *SuiteState
	Patient        *responses.Patient
	Cleanup        *cleanup.Registry
	Log            *zap.Logger
}

func newWorld(page playwright.Page, fixtures contracts.FixtureUsecase, internalConfig *config.InternalConfig, state *SuiteState, logger *zap.Logger) *World {
	if state == nil {
		state = &SuiteState{PaymentMode: internalConfig.Fixture.PaymentMode}
	}
	return &World{
		Page:           page,
		Dashboard:      pages.NewBillingDashboardPage(page),
		Form:           pages.NewBillingFormPage(page),
		Invoice:        pages.NewInvoicePage(page),
		Payment:        pages.NewPaymentPage(page),
		BillPayment:    pages.NewBillingPaymentPage(page),
		Fixtures:       fixtures,
		InternalConfig: internalConfig,
		Suite:          state,
		Cleanup:        cleanup.NewRegistry(),
		Log:            logger,
	}
}

// TrackBill registers the bill for deletion when the case ends.
func (w *World) TrackBill(billUUID string) {
	w.Cleanup.Register("bill "+billUUID, func(ctx context.Context) cleanup.Report {
		return w.Fixtures.DeleteBill(ctx, billUUID)
	})
}

func (w *World) trackPatient(patientUUID string) {
	w.Cleanup.Register("patient "+patientUUID, func(ctx context.Context) cleanup.Report {
		return w.Fixtures.DeletePatient(ctx, patientUUID)
	})
}

func (w *World) pollInterval() time.Duration {
	return time.Duration(w.InternalConfig.Fixture.PollIntervalInMs) * time.Millisecond
}

func (w *World) statusTimeout() time.Duration {
	return time.Duration(w.InternalConfig.Fixture.StatusPollTimeoutInSecs) * time.Second
}
