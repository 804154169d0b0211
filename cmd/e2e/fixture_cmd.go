package main

import (
	"fmt"
	"openmrs-billing-e2e/internal/pkg/cleanup"
	"openmrs-billing-e2e/internal/pkg/constvars"

	"github.com/spf13/cobra"
)

func ensurePricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensure-prices",
		Short: "Make sure a billable service carries a price for the configured payment mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			serviceUUID, _ := cmd.Flags().GetString("service")
			price, _ := cmd.Flags().GetFloat64("price")

			app, services, release, err := openServices(false)
			if err != nil {
				return err
			}
			defer release()

			if serviceUUID == "" {
				serviceUUID, err = app.InternalConfig.TestService()
				if err != nil {
					return err
				}
			}

			service, err := services.Fixtures.EnsureServiceHasPrices(commandContext(cmd), serviceUUID, price)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", service.Name, service.UUID)
			for _, servicePrice := range service.ServicePrices {
				fmt.Fprintf(out, "  %s\t%s\n", servicePrice.Name, servicePrice.Price.StringFixed(2))
			}
			return nil
		},
	}
	cmd.Flags().String("service", "", "billable service uuid, defaults to E2E_TEST_SERVICE_UUID")
	cmd.Flags().Float64("price", constvars.DefaultServicePrice, "price added when the payment mode has none")
	return cmd
}

func seedPatientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-patient",
		Short: "Create a patient with a random name and a generated identifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, services, release, err := openServices(false)
			if err != nil {
				return err
			}
			defer release()

			patient, err := services.Fixtures.GenerateRandomPatient(commandContext(cmd), app.InternalConfig.OpenMRS.DefaultLocationUUID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", patient.UUID, patient.FullName())
			return nil
		},
	}
}

func seedPaymentModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-payment-mode",
		Short: "Create a payment mode unless one with the same name exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			description, _ := cmd.Flags().GetString("description")

			_, services, release, err := openServices(false)
			if err != nil {
				return err
			}
			defer release()

			paymentMode, err := services.Fixtures.EnsurePaymentMode(commandContext(cmd), name, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", paymentMode.UUID, paymentMode.Name)
			return nil
		},
	}
	cmd.Flags().String("name", constvars.PaymentModeCash, "payment mode name")
	cmd.Flags().String("description", "", "payment mode description")
	return cmd
}

// cleanupCmd never fails because of a delete: what could not be removed is
// printed and the command still exits zero.
func cleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete a seeded patient with all of its bills, or a single bill",
		RunE: func(cmd *cobra.Command, args []string) error {
			patientUUID, _ := cmd.Flags().GetString("patient")
			billUUID, _ := cmd.Flags().GetString("bill")
			if patientUUID == "" && billUUID == "" {
				return fmt.Errorf("one of --patient or --bill is required")
			}

			_, services, release, err := openServices(false)
			if err != nil {
				return err
			}
			defer release()

			ctx := commandContext(cmd)
			var report cleanup.Report
			if billUUID != "" {
				report.Merge(services.Fixtures.DeleteBill(ctx, billUUID))
			}
			if patientUUID != "" {
				report.Merge(services.Fixtures.DeletePatient(ctx, patientUUID))
			}

			printCleanupReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().String("patient", "", "patient uuid, its bills are deleted first")
	cmd.Flags().String("bill", "", "bill uuid")
	return cmd
}

func printCleanupReport(cmd *cobra.Command, report cleanup.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "attempted %d deletes, %d failed\n", report.Attempted, len(report.Failures))
	for _, warning := range report.Warnings() {
		fmt.Fprintf(out, "  %s\n", warning)
	}
}
