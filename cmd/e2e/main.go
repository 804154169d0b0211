package main

import (
	"context"
	"log"
	"openmrs-billing-e2e/internal/app/bootstrap"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/pkg/utils"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "e2e",
		Short:         "End-to-end workflow runner for the OpenMRS billing module",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(suitesCmd())
	rootCmd.AddCommand(ensurePricesCmd())
	rootCmd.AddCommand(seedPatientCmd())
	rootCmd.AddCommand(seedPaymentModeCmd())
	rootCmd.AddCommand(cleanupCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if err != errRunFailed {
			log.Printf("e2e: %v", err)
		}
		stop()
		os.Exit(1)
	}
}

// openServices loads the configuration and wires the services. The returned
// release function waits for in flight work and disconnects the drivers.
func openServices(withBrowser bool) (*config.Bootstrap, *bootstrap.Services, func(), error) {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if err := internalConfig.Validate(); err != nil {
		return nil, nil, nil, err
	}

	app, err := bootstrap.Open(driverConfig, internalConfig, withBrowser)
	if err != nil {
		_ = app.Shutdown(context.Background())
		return nil, nil, nil, err
	}

	services, err := bootstrap.NewServices(app)
	if err != nil {
		_ = app.Shutdown(context.Background())
		return nil, nil, nil, err
	}

	release := func() {
		if err := services.Close(); err != nil {
			log.Printf("Failed to close run event publisher: %v", err)
		}
		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
		)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			log.Printf("Failed to release drivers: %v", err)
		}
	}
	return app, services, release, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	return utils.WithRequestID(cmd.Context(), utils.GenerateRequestID())
}
