// Package openmrs assembles the REST clients of the OpenMRS resources the
// billing fixtures touch.
package openmrs

import (
	"openmrs-billing-e2e/internal/app/contracts"
	"openmrs-billing-e2e/internal/app/services/openmrs/billableservices"
	"openmrs-billing-e2e/internal/app/services/openmrs/bills"
	"openmrs-billing-e2e/internal/app/services/openmrs/cashpoints"
	"openmrs-billing-e2e/internal/app/services/openmrs/identifiers"
	"openmrs-billing-e2e/internal/app/services/openmrs/patients"
	"openmrs-billing-e2e/internal/app/services/openmrs/paymentmodes"
	"openmrs-billing-e2e/internal/app/services/openmrs/sessions"
	"openmrs-billing-e2e/internal/app/services/openmrs/transport"

	"go.uber.org/zap"
)

// NewClients wires every resource client onto one transport. modulePrefix
// selects where the billing resources are mounted.
func NewClients(transportClient *transport.Client, modulePrefix string, logger *zap.Logger) contracts.OpenMRSClients {
	return contracts.OpenMRSClients{
		Identifiers:      identifiers.NewIdentifierOpenMRSClient(transportClient, logger),
		Patients:         patients.NewPatientOpenMRSClient(transportClient, logger),
		BillableServices: billableservices.NewBillableServiceOpenMRSClient(transportClient, modulePrefix, logger),
		PaymentModes:     paymentmodes.NewPaymentModeOpenMRSClient(transportClient, modulePrefix, logger),
		CashPoints:       cashpoints.NewCashPointOpenMRSClient(transportClient, modulePrefix, logger),
		Bills:            bills.NewBillOpenMRSClient(transportClient, modulePrefix, logger),
		Sessions:         sessions.NewSessionOpenMRSClient(transportClient, logger),
	}
}
