package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	GetSuitesSuccessMessage = "get suites successfully"
	StartRunSuccessMessage  = "run started"
	GetRunSuccessMessage    = "get run successfully"
	GetRunsSuccessMessage   = "get runs successfully"
)
