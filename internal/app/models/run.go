package models

import (
	"openmrs-billing-e2e/internal/pkg/constvars"
	"time"
)

// Run is one execution of a set of suites against an OpenMRS instance.
type Run struct {
	ID         string        `json:"id" bson:"_id"`
	RequestID  string        `json:"requestId,omitempty" bson:"requestId,omitempty"`
	Status     string        `json:"status" bson:"status"`
	Suites     []string      `json:"suites" bson:"suites"`
	Results    []SuiteResult `json:"results" bson:"results"`
	Summary    RunSummary    `json:"summary" bson:"summary"`
	StartedAt  time.Time     `json:"startedAt" bson:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty" bson:"finishedAt,omitempty"`
	TimeModel  `bson:",inline"`
}

type RunSummary struct {
	Passed  int `json:"passed" bson:"passed"`
	Failed  int `json:"failed" bson:"failed"`
	Skipped int `json:"skipped" bson:"skipped"`
}

type SuiteResult struct {
	Name   string       `json:"name" bson:"name"`
	Serial bool         `json:"serial" bson:"serial"`
	Cases  []CaseResult `json:"cases" bson:"cases"`
}

type CaseResult struct {
	Suite       string        `json:"suite" bson:"suite"`
	Name        string        `json:"name" bson:"name"`
	Status      string        `json:"status" bson:"status"`
	SkipReason  string        `json:"skipReason,omitempty" bson:"skipReason,omitempty"`
	FailedStep  string        `json:"failedStep,omitempty" bson:"failedStep,omitempty"`
	Error       string        `json:"error,omitempty" bson:"error,omitempty"`
	ErrorKind   string        `json:"errorKind,omitempty" bson:"errorKind,omitempty"`
	PatientUUID string        `json:"patientUuid,omitempty" bson:"patientUuid,omitempty"`
	Steps       []StepResult  `json:"steps" bson:"steps"`
	Artifacts   []string      `json:"artifacts,omitempty" bson:"artifacts,omitempty"`
	Warnings    []string      `json:"warnings,omitempty" bson:"warnings,omitempty"`
	StartedAt   time.Time     `json:"startedAt" bson:"startedAt"`
	Duration    time.Duration `json:"duration" bson:"duration"`
}

type StepResult struct {
	Index      int           `json:"index" bson:"index"`
	Name       string        `json:"name" bson:"name"`
	Status     string        `json:"status" bson:"status"`
	SkipReason string        `json:"skipReason,omitempty" bson:"skipReason,omitempty"`
	Error      string        `json:"error,omitempty" bson:"error,omitempty"`
	Duration   time.Duration `json:"duration" bson:"duration"`
}

// RunEvent is published on every run state change.
type RunEvent struct {
	Type       string      `json:"type"`
	RunID      string      `json:"runId"`
	Status     string      `json:"status"`
	Case       *CaseResult `json:"case,omitempty"`
	Summary    *RunSummary `json:"summary,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

func NewRun(id, requestID string, suites []string) *Run {
	run := &Run{
		ID:        id,
		RequestID: requestID,
		Status:    constvars.RunStatusRunning,
		Suites:    suites,
		Results:   []SuiteResult{},
		StartedAt: time.Now(),
	}
	run.SetCreatedAtUpdatedAt()
	return run
}

func (c CaseResult) Failed() bool {
	return c.Status == constvars.CaseStatusFailed
}

// Record files a finished case under its suite while the run is still in
// progress.
func (r *Run) Record(result CaseResult) {
	r.Summary.add(result.Status)
	r.SetUpdatedAt()
	for i := range r.Results {
		if r.Results[i].Name == result.Suite {
			r.Results[i].Cases = append(r.Results[i].Cases, result)
			return
		}
	}
	r.Results = append(r.Results, SuiteResult{Name: result.Suite, Cases: []CaseResult{result}})
}

// Finish records the suite results and derives the summary and final status.
func (r *Run) Finish(results []SuiteResult) {
	r.Results = results
	r.Summary = RunSummary{}
	for _, suite := range results {
		for _, result := range suite.Cases {
			r.Summary.add(result.Status)
		}
	}

	r.Status = constvars.RunStatusPassed
	if r.Summary.Failed > 0 {
		r.Status = constvars.RunStatusFailed
	}
	finishedAt := time.Now()
	r.FinishedAt = &finishedAt
	r.SetUpdatedAt()
}

func (s *RunSummary) add(status string) {
	switch status {
	case constvars.CaseStatusPassed:
		s.Passed++
	case constvars.CaseStatusFailed:
		s.Failed++
	case constvars.CaseStatusSkipped:
		s.Skipped++
	}
}
