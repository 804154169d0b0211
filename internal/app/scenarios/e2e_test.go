//go:build e2e

package scenarios_test

import (
	"context"
	"openmrs-billing-e2e/internal/app/bootstrap"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/scenarios"
	"openmrs-billing-e2e/internal/pkg/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBillingSuites drives every registered suite against the OpenMRS
// instance named in .env. Run with: go test -tags e2e ./internal/app/scenarios/
func TestBillingSuites(t *testing.T) {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	require.NoError(t, internalConfig.Validate())

	app, err := bootstrap.Open(driverConfig, internalConfig, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.Shutdown(context.Background())
	})

	services, err := bootstrap.NewServices(app)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = services.Close()
	})

	ctx := utils.WithRequestID(context.Background(), utils.GenerateRequestID())
	for _, suite := range scenarios.All() {
		t.Run(suite.Name, func(t *testing.T) {
			results := services.Executor.Execute(ctx, utils.GenerateRunID(), []string{suite.Name}, nil)
			require.Len(t, results, 1)
			for _, result := range results[0].Cases {
				t.Run(result.Name, func(t *testing.T) {
					if result.SkipReason != "" {
						t.Skip(result.SkipReason)
					}
					for _, warning := range result.Warnings {
						t.Log(warning)
					}
					assert.False(t, result.Failed(), "step %q: %s", result.FailedStep, result.Error)
				})
			}
		})
	}
}
