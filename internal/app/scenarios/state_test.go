package scenarios

import (
	"context"
	"openmrs-billing-e2e/internal/app/pages"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExpectedStatus(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		tendered float64
		want     string
	}{
		{"Nothing Paid", 30, 0, constvars.BillStatusPending},
		{"Half Paid", 30, 15, constvars.BillStatusPending},
		{"Exactly Paid", 30, 30, constvars.BillStatusPaid},
		{"Rounding Within A Cent", 100, 99.999, constvars.BillStatusPaid},
		{"Overpaid", 30, 50, constvars.BillStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpectedStatus(tt.total, tt.tendered))
		})
	}
}

func TestIsUnsettled(t *testing.T) {
	t.Run("Pending And Posted Are Unsettled", func(t *testing.T) {
		assert.True(t, IsUnsettled("PENDING"))
		assert.True(t, IsUnsettled(" posted "))
	})

	t.Run("Paid Is Settled", func(t *testing.T) {
		assert.False(t, IsUnsettled("PAID"))
		assert.False(t, IsUnsettled(""))
	})

	t.Run("Pending Expectation Accepts Posted", func(t *testing.T) {
		assert.True(t, statusMatches("POSTED", constvars.BillStatusPending))
		assert.False(t, statusMatches("PAID", constvars.BillStatusPending))
		assert.True(t, statusMatches("Invoice Status PAID", constvars.BillStatusPaid))
	})
}

func TestAll(t *testing.T) {
	suites := All()
	names := map[string]bool{}
	for _, suite := range suites {
		t.Run(suite.Name, func(t *testing.T) {
			assert.False(t, names[suite.Name], "duplicate suite name")
			names[suite.Name] = true
			assert.NotEmpty(t, suite.Description)
			assert.NotEmpty(t, suite.Cases)
			world := newWorld(&fakePage{}, &fakeFixtures{}, newExecutorFixture().config, nil, zap.NewNop())
			for _, c := range suite.Cases {
				require.NotNil(t, c.Steps, c.Name)
				seen := map[string]bool{}
				for _, step := range c.Steps(world) {
					assert.NotEmpty(t, step.Name)
					assert.NotNil(t, step.Run)
					seen[step.Name] = true
				}
				assert.NotEmpty(t, seen, c.Name)
			}
		})
	}

	t.Run("Line Item Status Checks Stay Skipped", func(t *testing.T) {
		world := newWorld(&fakePage{}, &fakeFixtures{}, newExecutorFixture().config, nil, zap.NewNop())
		checked := 0
		for _, suite := range suites {
			for _, c := range suite.Cases {
				for _, step := range c.Steps(world) {
					name := strings.ToLower(step.Name)
					if strings.Contains(name, "line item") && strings.Contains(name, "paid") {
						checked++
						assert.Equal(t, upstreamLineItemStatus, step.Skip, "%s / %s", suite.Name, step.Name)
					}
				}
			}
		}
		assert.GreaterOrEqual(t, checked, 2)
	})

	assert.Equal(t, []string{
		SuiteBillingBasic,
		SuiteProcessBillPayment,
		SuiteBillingDashboard,
		SuiteBillingOperations,
		SuiteBillingPatientChart,
	}, []string{suites[0].Name, suites[1].Name, suites[2].Name, suites[3].Name, suites[4].Name})
}

func TestRemainingMs(t *testing.T) {
	t.Run("Page Default Without Deadline", func(t *testing.T) {
		assert.Equal(t, float64(constvars.DefaultUITimeoutInMs), remainingMs(context.Background()))
	})

	t.Run("Bounded By Poll Budget", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		ms := remainingMs(ctx)

		assert.Greater(t, ms, 0.0)
		assert.LessOrEqual(t, ms, 2000.0)
	})

	t.Run("Expired Budget Never Means No Timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
		defer cancel()

		assert.Equal(t, 1.0, remainingMs(ctx))
	})
}

func TestCheckListedBill(t *testing.T) {
	rows := []pages.BillRow{
		{PatientName: "John12 Smith34", BilledItems: "Consultation"},
		{PatientName: "Jane Doe"},
	}

	t.Run("Row And Billed Item Found", func(t *testing.T) {
		assert.NoError(t, checkListedBill(rows, "john12 smith34", "consultation"))
	})

	t.Run("Missing Billed Items Column Is Not Checked", func(t *testing.T) {
		assert.NoError(t, checkListedBill(rows, "Jane Doe", "Consultation"))
	})

	t.Run("Missing Patient Fails", func(t *testing.T) {
		err := checkListedBill(rows, "Nobody Here", "Consultation")

		require.Error(t, err)
		assert.Equal(t, exceptions.KindAssertion, exceptions.KindOf(err))
	})

	t.Run("Other Service Fails", func(t *testing.T) {
		assert.Error(t, checkListedBill(rows, "John12 Smith34", "Lab Test"))
	})
}
