package models

import (
	"openmrs-billing-e2e/internal/pkg/constvars"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("Record Groups Cases By Suite", func(t *testing.T) {
		run := NewRun("run-1", "req-1", []string{"billing-basic", "billing-operations"})
		run.Record(CaseResult{Suite: "billing-basic", Name: "a", Status: constvars.CaseStatusPassed})
		run.Record(CaseResult{Suite: "billing-operations", Name: "b", Status: constvars.CaseStatusFailed})
		run.Record(CaseResult{Suite: "billing-basic", Name: "c", Status: constvars.CaseStatusSkipped})

		require.Len(t, run.Results, 2)
		assert.Len(t, run.Results[0].Cases, 2)
		assert.Equal(t, RunSummary{Passed: 1, Failed: 1, Skipped: 1}, run.Summary)
		assert.Equal(t, constvars.RunStatusRunning, run.Status)
		assert.Nil(t, run.FinishedAt)
	})

	t.Run("Finish Replaces Progress", func(t *testing.T) {
		run := NewRun("run-1", "", []string{"billing-basic"})
		run.Record(CaseResult{Suite: "billing-basic", Name: "a", Status: constvars.CaseStatusFailed})

		run.Finish([]SuiteResult{{
			Name:  "billing-basic",
			Cases: []CaseResult{{Name: "a", Status: constvars.CaseStatusPassed}},
		}})

		assert.Equal(t, RunSummary{Passed: 1}, run.Summary)
		assert.Equal(t, constvars.RunStatusPassed, run.Status)
		assert.NotNil(t, run.FinishedAt)
	})

	t.Run("Any Failure Fails The Run", func(t *testing.T) {
		run := NewRun("run-1", "", nil)
		run.Finish([]SuiteResult{{
			Name: "billing-operations",
			Cases: []CaseResult{
				{Status: constvars.CaseStatusPassed},
				{Status: constvars.CaseStatusFailed},
			},
		}})
		assert.Equal(t, constvars.RunStatusFailed, run.Status)
	})
}
