package fixtures

import (
	"context"
	"openmrs-billing-e2e/internal/pkg/cleanup"
	"openmrs-billing-e2e/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Teardown never returns an error. Every deletion is attempted on its own
// and failures end up in the report and the warning log.

func (uc *fixtureUsecase) DeleteBill(ctx context.Context, billUUID string) cleanup.Report {
	var report cleanup.Report
	report.Attempt(constvars.ResourceBill+" "+billUUID, func() error {
		return uc.Clients.Bills.DeleteBill(ctx, billUUID, true)
	})
	uc.logReport(ctx, "fixtureUsecase.DeleteBill", report)
	return report
}

func (uc *fixtureUsecase) DeleteAllBillsForPatient(ctx context.Context, patientUUID string) cleanup.Report {
	var report cleanup.Report

	bills, err := uc.Clients.Bills.ListBillsByPatient(ctx, patientUUID)
	if err != nil {
		report.Attempted++
		report.Fail("bills of "+constvars.ResourcePatient+" "+patientUUID, err)
		uc.logReport(ctx, "fixtureUsecase.DeleteAllBillsForPatient", report)
		return report
	}

	for _, bill := range bills {
		billUUID := bill.UUID
		report.Attempt(constvars.ResourceBill+" "+billUUID, func() error {
			return uc.Clients.Bills.DeleteBill(ctx, billUUID, true)
		})
	}
	uc.logReport(ctx, "fixtureUsecase.DeleteAllBillsForPatient", report)
	return report
}

// DeletePatient removes the patient's bills first, then the patient. The
// patient delete is attempted even when some bills could not be removed.
func (uc *fixtureUsecase) DeletePatient(ctx context.Context, patientUUID string) cleanup.Report {
	report := uc.DeleteAllBillsForPatient(ctx, patientUUID)

	var patientReport cleanup.Report
	patientReport.Attempt(constvars.ResourcePatient+" "+patientUUID, func() error {
		return uc.Clients.Patients.DeletePatient(ctx, patientUUID, true)
	})
	uc.logReport(ctx, "fixtureUsecase.DeletePatient", patientReport)

	report.Merge(patientReport)
	return report
}

func (uc *fixtureUsecase) logReport(ctx context.Context, operation string, report cleanup.Report) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	for _, failure := range report.Failures {
		uc.Log.Warn(operation+" cleanup failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCleanupKey, failure.Target),
			zap.String(constvars.LoggingResponseKey, failure.Reason),
		)
	}
	if report.OK() {
		uc.Log.Info(operation+" succeeded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingCountKey, report.Attempted),
		)
	}
}

