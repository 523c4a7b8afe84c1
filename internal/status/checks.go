package status

import "github.com/nhle/workstatus/internal/model"

// RollupChecks counts check runs by outcome.
//
// Passed and Failed look only at the conclusion; Pending looks only at
// the completion status. Upstream can briefly report a run that is not
// completed yet already concluded with a failure, and such a run lands in
// both Failed and Pending. Total is always the number of runs.
func RollupChecks(runs []model.CheckRun) model.CheckSummary {
	summary := model.CheckSummary{
		Total:       len(runs),
		FailedNames: []string{},
	}

	for _, run := range runs {
		switch {
		case run.Conclusion == model.CheckConclusionSuccess:
			summary.Passed++
		case run.Conclusion != "":
			summary.Failed++
			summary.FailedNames = append(summary.FailedNames, run.Name)
		}

		if run.Status != model.CheckStatusCompleted {
			summary.Pending++
		}
	}

	return summary
}
