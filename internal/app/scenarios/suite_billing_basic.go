package scenarios

import (
	"context"
	"fmt"
	"openmrs-billing-e2e/internal/app/pages"
	"openmrs-billing-e2e/internal/pkg/constvars"
)

const SuiteBillingBasic = "billing-basic"

// BillingBasicSuite is the smoke suite: both billing entry points load.
func BillingBasicSuite() Suite {
	return Suite{
		Name:        SuiteBillingBasic,
		Description: "Smoke checks that the billing dashboard and the patient billing history load",
		Cases: []Case{
			{Name: "Load the billing dashboard", Steps: loadBillingDashboard},
			{Name: "Navigate to the patient billing history", NeedsPatient: true, Steps: loadPatientBilling},
		},
	}
}

func loadBillingDashboard(w *World) []Step {
	return []Step{
		{
			Name: "When I open the billing dashboard",
			Run: func(ctx context.Context) error {
				if _, err := w.Page.Goto(constvars.PathBillingDashboard); err != nil {
					return err
				}
				return pages.WaitForPageLoad(w.Page)
			},
		},
		bodyIsVisible(w),
	}
}

func loadPatientBilling(w *World) []Step {
	return []Step{
		{
			Name: "When I open the billing history of the patient chart",
			Run: func(ctx context.Context) error {
				if _, err := w.Page.Goto(fmt.Sprintf(constvars.PathPatientBillingLegacy, w.Patient.UUID)); err != nil {
					return err
				}
				return pages.WaitForPageLoad(w.Page)
			},
		},
		bodyIsVisible(w),
	}
}

func bodyIsVisible(w *World) Step {
	return Step{
		Name: "Then the page is rendered",
		Run: func(ctx context.Context) error {
			return pages.VerifyBodyVisible(w.Page)
		},
	}
}
