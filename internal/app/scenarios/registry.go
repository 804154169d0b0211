package scenarios

// All lists every suite the runner knows, smoke checks first.
func All() []Suite {
	return []Suite{
		BillingBasicSuite(),
		ProcessBillPaymentSuite(),
		BillingDashboardSuite(),
		BillingOperationsSuite(),
		BillingPatientChartSuite(),
	}
}
