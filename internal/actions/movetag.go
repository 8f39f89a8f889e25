package actions

import (
	"context"
	"fmt"

	"github.com/temirov/branchops/internal/gitlab"
)

// performMoveTag repositions the configured tag onto the master head commit
// in every project. Replacing an existing tag removes it and recreates it in
// two calls; a failure between them leaves the tag deleted, which is an
// accepted risk of the flow.
func (engine *Engine) performMoveTag(executionContext context.Context, action MoveTagAction, cancellationToken *CancellationToken) (MoveTagActionResult, error) {
	movedTags := []MovedTagInfo{}
	notMovedTags := []NotMovedTagInfo{}

	cancelledResult := func() MoveTagActionResult {
		return MoveTagActionResult{
			Status:       StatusCancelled,
			MovedTags:    movedTags,
			NotMovedTags: sortedNotMovedTags(notMovedTags),
		}
	}

	for _, projectID := range action.TargetProjects() {
		if cancellationToken.IsCancelled() {
			return cancelledResult(), nil
		}

		moved, notMoved := engine.moveProjectTag(executionContext, projectID, action.Parameters)
		if notMoved != nil {
			notMovedTags = append(notMovedTags, *notMoved)
			continue
		}

		movedTags = append(movedTags, *moved)
	}

	if cancellationToken.IsCancelled() {
		return cancelledResult(), nil
	}

	status := StatusSuccess
	if len(movedTags) == 0 {
		status = StatusError
	} else if len(notMovedTags) > 0 {
		status = StatusWarn
	}

	return MoveTagActionResult{
		Status:       status,
		MovedTags:    movedTags,
		NotMovedTags: sortedNotMovedTags(notMovedTags),
	}, nil
}

// moveProjectTag runs the per-project move flow and returns exactly one of a
// moved record or a not-moved record.
func (engine *Engine) moveProjectTag(executionContext context.Context, projectID int, parameters MoveTagParameters) (*MovedTagInfo, *NotMovedTagInfo) {
	executionFailure := func(failure error) (*MovedTagInfo, *NotMovedTagInfo) {
		return nil, &NotMovedTagInfo{
			ProjectID:  projectID,
			Reason:     fmt.Sprintf(executionErrorReasonTemplateConstant, failure),
			ReasonType: NotMovedTagReasonError,
		}
	}

	hasBranch, branchCheckError := engine.client.CheckHasBranch(executionContext, projectID, gitlab.DefaultBranchMaster)
	if branchCheckError != nil {
		return executionFailure(branchCheckError)
	}

	if !hasBranch {
		return nil, &NotMovedTagInfo{
			ProjectID:  projectID,
			Reason:     masterBranchNotFoundReasonConstant,
			ReasonType: NotMovedTagReasonBranchNotFound,
		}
	}

	branchInfo, branchInfoError := engine.client.GetBranchInfo(executionContext, projectID, gitlab.DefaultBranchMaster)
	if branchInfoError != nil {
		return executionFailure(branchInfoError)
	}

	tagInfo, tagError := engine.client.GetTag(executionContext, projectID, parameters.Name)
	if tagError != nil {
		return executionFailure(tagError)
	}

	if tagInfo == nil {
		if !parameters.CreateIfNotExist {
			return nil, &NotMovedTagInfo{
				ProjectID:  projectID,
				Reason:     tagNotFoundReasonConstant,
				ReasonType: NotMovedTagReasonTagNotFound,
			}
		}

		if _, addError := engine.client.AddTag(executionContext, projectID, parameters.Name, branchInfo.CommitSHA); addError != nil {
			return executionFailure(addError)
		}

		return &MovedTagInfo{ProjectID: projectID, Link: branchInfo.CommitLink, SHA: branchInfo.CommitSHA}, nil
	}

	if tagInfo.CommitSHA == branchInfo.CommitSHA {
		return nil, &NotMovedTagInfo{
			ProjectID:  projectID,
			Reason:     tagUpToDateReasonConstant,
			ReasonType: NotMovedTagReasonTagIsUpToDate,
		}
	}

	if removeError := engine.client.RemoveTag(executionContext, projectID, tagInfo.Name); removeError != nil {
		return executionFailure(removeError)
	}

	if _, addError := engine.client.AddTag(executionContext, projectID, parameters.Name, branchInfo.CommitSHA); addError != nil {
		return executionFailure(addError)
	}

	return &MovedTagInfo{ProjectID: projectID, Link: branchInfo.CommitLink, SHA: branchInfo.CommitSHA}, nil
}
