package main

import (
	"errors"
	"fmt"
	"openmrs-billing-e2e/internal/app/drivers/logger"
	"openmrs-billing-e2e/internal/app/scenarios"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// errRunFailed is returned once the summary is printed so main exits non zero
// without repeating the failure.
var errRunFailed = errors.New("run failed")

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [suite...]",
		Short: "Run the named suites, falling back to E2E_SUITES and then every suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, services, release, err := openServices(true)
			if err != nil {
				return err
			}
			defer release()

			suites := args
			if len(suites) == 0 {
				suites = app.InternalConfig.App.Suites
			}

			run, err := services.Runs.ExecuteRun(commandContext(cmd), &requests.StartRun{Suites: suites})
			if err != nil {
				return err
			}

			summary := logger.NewLogrusLogger(app.InternalConfig, cmd.OutOrStdout())
			if !printRunSummary(summary, run) {
				return errRunFailed
			}
			return nil
		},
	}
}

func suitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suites",
		Short: "List the registered suites",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSERIAL\tCASES\tDESCRIPTION")
			for _, suite := range scenarios.All() {
				fmt.Fprintf(w, "%s\t%t\t%d\t%s\n", suite.Name, suite.Serial, len(suite.Cases), suite.Description)
			}
			return w.Flush()
		},
	}
}
