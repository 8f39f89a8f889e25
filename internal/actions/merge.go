package actions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/temirov/branchops/internal/gitlab"
)

const (
	noDiffsFoundReasonConstant         = "No diffs between branches were found"
	missingBranchesReasonConstant      = "Project doesn't have one of merging branches"
	mergeConflictsReasonConstant       = "Merge conflicts"
	noAccessRightsReasonConstant       = "You don't have enough access rights to merge"
	retryExhaustedReasonConstant       = "Cannot merge. Check merge request"
	refNotFoundMessageConstant         = "404 Ref Not Found"
	httpErrorReasonTemplateConstant    = "%d %s"
	mergeRequestCreatedMessageConstant = "merge request created"
	mergeReplayQueuedMessageConstant   = "merge deferred to replay pass"
	logFieldProjectConstant            = "project_id"
	logFieldMergeRequestConstant       = "merge_request_id"
)

type createAttempt struct {
	created        bool
	projectID      int
	mergeRequestID int
	link           string
	reference      string
	reason         string
	reasonType     NotMergeReason
}

type replayEntry struct {
	projectID      int
	mergeRequestID int
}

// performMerge runs the two-phase merge algorithm: a sequential create pass
// over every project, then a replay pass retrying merges whose status GitLab
// had not yet computed. Per-project failures are classified into the
// not-merged collection; only unexpected faults escape as errors.
func (engine *Engine) performMerge(executionContext context.Context, action MergeAction, cancellationToken *CancellationToken) (MergeActionResult, error) {
	mergedRequests := []gitlab.MergeOutcome{}
	notMergedRequests := []NotMergedRequest{}
	replayQueue := []replayEntry{}

	cancelledResult := func() MergeActionResult {
		return MergeActionResult{
			Status:            StatusCancelled,
			MergedRequests:    mergedRequests,
			NotMergedRequests: sortedNotMergedRequests(notMergedRequests),
		}
	}

	for _, projectID := range action.TargetProjects() {
		if cancellationToken.IsCancelled() {
			return cancelledResult(), nil
		}

		attempt := engine.tryToCreateMergeRequest(executionContext, projectID, action.Parameters)
		if !attempt.created {
			notMergedRequests = append(notMergedRequests, NotMergedRequest{
				ProjectID:  projectID,
				Reason:     attempt.reason,
				ReasonType: attempt.reasonType,
			})
			continue
		}

		engine.logger.Debug(
			mergeRequestCreatedMessageConstant,
			zap.Int(logFieldProjectConstant, projectID),
			zap.Int(logFieldMergeRequestConstant, attempt.mergeRequestID),
		)

		if waitError := waitFor(executionContext, engine.delays.MergeSettle); waitError != nil {
			return MergeActionResult{}, waitError
		}

		requestInfo, infoError := engine.client.GetMergeRequestInfo(executionContext, projectID, attempt.mergeRequestID)
		if infoError != nil {
			return MergeActionResult{}, infoError
		}

		if requestInfo.HasConflicts {
			notMergedRequests = append(notMergedRequests, NotMergedRequest{
				ProjectID:      projectID,
				Reason:         mergeConflictsReasonConstant,
				ReasonType:     NotMergeReasonConflicts,
				MergeRequestID: requestInfo.ID,
				Link:           requestInfo.Link,
				Reference:      requestInfo.Reference,
			})
			continue
		}

		if !requestInfo.CanBeMergedByCurrentUser {
			notMergedRequests = append(notMergedRequests, NotMergedRequest{
				ProjectID:      projectID,
				Reason:         noAccessRightsReasonConstant,
				ReasonType:     NotMergeReasonNoAccess,
				MergeRequestID: requestInfo.ID,
				Link:           requestInfo.Link,
				Reference:      requestInfo.Reference,
			})
			continue
		}

		mergeResult, mergeError := engine.safeMerge(executionContext, projectID, requestInfo.ID, false)
		if mergeError != nil {
			return MergeActionResult{}, mergeError
		}

		if mergeResult.HasError() {
			engine.logger.Debug(
				mergeReplayQueuedMessageConstant,
				zap.Int(logFieldProjectConstant, projectID),
				zap.Int(logFieldMergeRequestConstant, requestInfo.ID),
			)
			replayQueue = append(replayQueue, replayEntry{projectID: projectID, mergeRequestID: requestInfo.ID})
			continue
		}

		mergedRequests = append(mergedRequests, mergeResult.Result())
	}

	if cancellationToken.IsCancelled() {
		return cancelledResult(), nil
	}

	for _, entry := range replayQueue {
		if cancellationToken.IsCancelled() {
			return cancelledResult(), nil
		}

		mergeResult, mergeError := engine.safeMerge(executionContext, entry.projectID, entry.mergeRequestID, true)
		if mergeError != nil {
			return MergeActionResult{}, mergeError
		}

		if mergeResult.HasError() {
			failure := mergeResult.Failure()
			failure.ProjectID = entry.projectID
			failure.MergeRequestID = entry.mergeRequestID
			notMergedRequests = append(notMergedRequests, failure)
			continue
		}

		mergedRequests = append(mergedRequests, mergeResult.Result())
	}

	if cancellationToken.IsCancelled() {
		return cancelledResult(), nil
	}

	status := StatusSuccess
	if len(mergedRequests) == 0 {
		status = StatusError
	} else if len(notMergedRequests) > 0 {
		status = StatusWarn
	}

	return MergeActionResult{
		Status:            status,
		MergedRequests:    mergedRequests,
		NotMergedRequests: sortedNotMergedRequests(notMergedRequests),
	}, nil
}

// tryToCreateMergeRequest checks for diffs and opens a merge request,
// classifying every failure into a not-merged reason. A 404 ref-not-found
// from the compare endpoint maps to the missing-branch category; a 409 from
// creation carries the joined API message list as the reason text.
func (engine *Engine) tryToCreateMergeRequest(executionContext context.Context, projectID int, parameters MergeParameters) createAttempt {
	hasDiffs, diffsError := engine.client.CheckHasDiffs(executionContext, projectID, parameters.SourceBranch, parameters.TargetBranch)
	if diffsError != nil {
		var httpError gitlab.HTTPError
		if errors.As(diffsError, &httpError) && httpError.StatusCode == http.StatusNotFound && httpError.Message() == refNotFoundMessageConstant {
			return createAttempt{
				projectID:  projectID,
				reason:     missingBranchesReasonConstant,
				reasonType: NotMergeReasonNoBranches,
			}
		}

		return createAttempt{
			projectID:  projectID,
			reason:     diffsError.Error(),
			reasonType: NotMergeReasonError,
		}
	}

	if !hasDiffs {
		return createAttempt{
			projectID:  projectID,
			reason:     noDiffsFoundReasonConstant,
			reasonType: NotMergeReasonNoDiffs,
		}
	}

	creationResult, creationError := engine.client.CreateMergeRequest(executionContext, projectID, parameters.SourceBranch, parameters.TargetBranch, parameters.Name)
	if creationError != nil {
		reason := creationError.Error()

		var httpError gitlab.HTTPError
		if errors.As(creationError, &httpError) {
			reason = httpError.StatusText
			if httpError.StatusCode == http.StatusConflict && len(httpError.Messages) > 0 {
				reason = httpError.Message()
			}
		}

		return createAttempt{
			projectID:  projectID,
			reason:     reason,
			reasonType: NotMergeReasonError,
		}
	}

	return createAttempt{
		created:        true,
		projectID:      projectID,
		mergeRequestID: creationResult.ID,
		link:           creationResult.Link,
		reference:      creationResult.Reference,
	}
}

// safeMerge polls the merge request status and merges once GitLab has
// resolved it. Without retry the single undetermined attempt falls through
// to the replay queue; with retry exhaustion the failure carries the fixed
// check-merge-request message.
func (engine *Engine) safeMerge(executionContext context.Context, projectID int, mergeRequestID int, useRetry bool) (SafeResult[gitlab.MergeOutcome, NotMergedRequest], error) {
	attempts := 1
	if useRetry {
		attempts = engine.delays.RetryAttempts
	}

	configuration := retryConfiguration{maxAttempts: attempts, delay: engine.delays.RetryInterval}

	mergeResult, retryError := runWithRetry(executionContext, configuration, func(attemptContext context.Context) (*SafeResult[gitlab.MergeOutcome, NotMergedRequest], error) {
		requestInfo, infoError := engine.client.GetMergeRequestInfo(attemptContext, projectID, mergeRequestID)
		if infoError != nil {
			failure := FailSafeResult[gitlab.MergeOutcome](NotMergedRequest{
				ProjectID:      projectID,
				MergeRequestID: mergeRequestID,
				Reason:         mergeFailureReason(infoError),
				ReasonType:     NotMergeReasonError,
			})
			return &failure, nil
		}

		if requestInfo.HasConflicts {
			failure := FailSafeResult[gitlab.MergeOutcome](NotMergedRequest{
				ProjectID:      projectID,
				MergeRequestID: mergeRequestID,
				Link:           requestInfo.Link,
				Reference:      requestInfo.Reference,
				Reason:         mergeConflictsReasonConstant,
				ReasonType:     NotMergeReasonConflicts,
			})
			return &failure, nil
		}

		if requestInfo.Status == gitlab.MergeStatusUnchecked || requestInfo.Status == gitlab.MergeStatusChecking {
			return nil, nil
		}

		if !requestInfo.CanBeMergedByCurrentUser {
			failure := FailSafeResult[gitlab.MergeOutcome](NotMergedRequest{
				ProjectID:      projectID,
				MergeRequestID: mergeRequestID,
				Link:           requestInfo.Link,
				Reference:      requestInfo.Reference,
				Reason:         noAccessRightsReasonConstant,
				ReasonType:     NotMergeReasonNoAccess,
			})
			return &failure, nil
		}

		mergeOutcome, mergeError := engine.client.Merge(attemptContext, projectID, mergeRequestID)
		if mergeError != nil {
			failure := FailSafeResult[gitlab.MergeOutcome](NotMergedRequest{
				ProjectID:      projectID,
				MergeRequestID: mergeRequestID,
				Reason:         mergeFailureReason(mergeError),
				ReasonType:     NotMergeReasonError,
			})
			return &failure, nil
		}

		success := CompleteSafeResult[gitlab.MergeOutcome, NotMergedRequest](mergeOutcome)
		return &success, nil
	})

	if retryError != nil {
		if errors.Is(retryError, ErrTooManyAttempts) {
			return FailSafeResult[gitlab.MergeOutcome](NotMergedRequest{
				ProjectID:      projectID,
				MergeRequestID: mergeRequestID,
				Reason:         retryExhaustedReasonConstant,
				ReasonType:     NotMergeReasonError,
			}), nil
		}
		return SafeResult[gitlab.MergeOutcome, NotMergedRequest]{}, retryError
	}

	return mergeResult, nil
}

// mergeFailureReason renders a transport failure into a reason string.
func mergeFailureReason(failure error) string {
	var httpError gitlab.HTTPError
	if errors.As(failure, &httpError) {
		return fmt.Sprintf(httpErrorReasonTemplateConstant, httpError.StatusCode, httpError.StatusText)
	}
	return failure.Error()
}
