package main

import (
	"openmrs-billing-e2e/internal/app/models"

	"github.com/sirupsen/logrus"
)

// printRunSummary logs one line per case followed by the totals and reports
// whether every case passed or was skipped.
func printRunSummary(log *logrus.Logger, run *models.Run) bool {
	for _, suite := range run.Results {
		for _, result := range suite.Cases {
			entry := log.WithFields(logrus.Fields{
				"suite":    suite.Name,
				"case":     result.Name,
				"status":   result.Status,
				"duration": result.Duration.Round(1e6).String(),
			})
			switch {
			case result.Failed():
				entry.WithFields(logrus.Fields{
					"step":  result.FailedStep,
					"kind":  result.ErrorKind,
					"error": result.Error,
				}).Error("case failed")
				for _, artifact := range result.Artifacts {
					entry.WithField("artifact", artifact).Error("failure screenshot")
				}
			case result.SkipReason != "":
				entry.WithField("reason", result.SkipReason).Warn("case skipped")
			default:
				entry.Info("case passed")
			}
			for _, warning := range result.Warnings {
				entry.WithField("warning", warning).Warn("teardown warning")
			}
		}
	}

	totals := log.WithFields(logrus.Fields{
		"run_id":  run.ID,
		"status":  run.Status,
		"passed":  run.Summary.Passed,
		"failed":  run.Summary.Failed,
		"skipped": run.Summary.Skipped,
	})
	if run.Summary.Failed > 0 {
		totals.Error("run finished")
		return false
	}
	totals.Info("run finished")
	return true
}
