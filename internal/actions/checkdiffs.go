package actions

import (
	"context"
	"errors"
	"net/http"

	"github.com/temirov/branchops/internal/gitlab"
)

// performCheckDiffs compares the configured branches in every project and
// buckets each one into has-diffs, no-diffs, or an error record. A missing
// branch is reported with a friendly message instead of the raw API error.
func (engine *Engine) performCheckDiffs(executionContext context.Context, action CheckDiffsAction, cancellationToken *CancellationToken) (CheckDiffsActionResult, error) {
	withDiffs := []int{}
	withoutDiffs := []int{}
	projectErrors := []ProjectError{}

	cancelledResult := func() CheckDiffsActionResult {
		return CheckDiffsActionResult{
			Status:   StatusCancelled,
			HasDiffs: withDiffs,
			NoDiffs:  withoutDiffs,
			Errors:   projectErrors,
		}
	}

	for _, projectID := range action.TargetProjects() {
		if cancellationToken.IsCancelled() {
			return cancelledResult(), nil
		}

		hasDiffs, diffsError := engine.client.CheckHasDiffs(executionContext, projectID, action.Parameters.SourceBranch, action.Parameters.TargetBranch)
		if diffsError != nil {
			message := diffsError.Error()

			var httpError gitlab.HTTPError
			if errors.As(diffsError, &httpError) && httpError.StatusCode == http.StatusNotFound && httpError.Message() == refNotFoundMessageConstant {
				message = missingBranchesReasonConstant
			}

			projectErrors = append(projectErrors, ProjectError{ProjectID: projectID, Message: message})
			continue
		}

		if hasDiffs {
			withDiffs = append(withDiffs, projectID)
		} else {
			withoutDiffs = append(withoutDiffs, projectID)
		}
	}

	if cancellationToken.IsCancelled() {
		return cancelledResult(), nil
	}

	status := StatusSuccess
	if len(projectErrors) > 0 {
		status = StatusWarn
		if len(withDiffs) == 0 && len(withoutDiffs) == 0 {
			status = StatusError
		}
	}

	return CheckDiffsActionResult{
		Status:   status,
		HasDiffs: withDiffs,
		NoDiffs:  withoutDiffs,
		Errors:   projectErrors,
	}, nil
}
