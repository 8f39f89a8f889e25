package actions

import (
	"context"

	"github.com/temirov/branchops/internal/gitlab"
)

type tagTarget struct {
	projectID int
	commitSHA string
}

// performRelease merges the test branch into master across the projects and
// optionally stamps the release tag onto every project's resulting master
// commit. Projects the merge never touched are treated as already up to date
// and tagged at their current master head with a mark-only record.
func (engine *Engine) performRelease(executionContext context.Context, action ReleaseAction, cancellationToken *CancellationToken) (ReleaseActionResult, error) {
	mergeAction := NewMergeAction(action.TargetProjects(), MergeParameters{
		SourceBranch: gitlab.DefaultBranchTest,
		TargetBranch: gitlab.DefaultBranchMaster,
		Name:         action.Parameters.MergeRequestName,
	})

	mergeResult, mergeError := engine.performMerge(executionContext, mergeAction, cancellationToken)
	if mergeError != nil {
		return ReleaseActionResult{}, mergeError
	}

	cancelledResult := func(createdTags []TagResult) ReleaseActionResult {
		cancelled := mergeResult
		cancelled.Status = StatusCancelled
		return ReleaseActionResult{MergeActionResult: cancelled, CreatedTags: createdTags}
	}

	if cancellationToken.IsCancelled() {
		return cancelledResult([]TagResult{}), nil
	}

	if !action.Parameters.SetVersionTagAfter {
		return ReleaseActionResult{MergeActionResult: mergeResult, CreatedTags: []TagResult{}}, nil
	}

	touchedProjects := map[int]bool{}
	for _, mergedRequest := range mergeResult.MergedRequests {
		touchedProjects[mergedRequest.ProjectID] = true
	}
	for _, notMergedRequest := range mergeResult.NotMergedRequests {
		touchedProjects[notMergedRequest.ProjectID] = true
	}

	upToDateProjects := map[int]bool{}
	tagTargets := []tagTarget{}
	for _, mergedRequest := range mergeResult.MergedRequests {
		tagTargets = append(tagTargets, tagTarget{projectID: mergedRequest.ProjectID, commitSHA: mergedRequest.MergeCommitSHA})
	}

	for _, projectID := range action.TargetProjects() {
		if touchedProjects[projectID] {
			continue
		}

		if cancellationToken.IsCancelled() {
			return cancelledResult([]TagResult{}), nil
		}

		branchInfo, branchInfoError := engine.client.GetBranchInfo(executionContext, projectID, gitlab.DefaultBranchMaster)
		if branchInfoError != nil {
			return ReleaseActionResult{}, branchInfoError
		}

		upToDateProjects[projectID] = true
		tagTargets = append(tagTargets, tagTarget{projectID: projectID, commitSHA: branchInfo.CommitSHA})
	}

	createdTags := []TagResult{}

	for _, target := range tagTargets {
		if cancellationToken.IsCancelled() {
			return cancelledResult(createdTags), nil
		}

		createdTag, addError := engine.client.AddTag(executionContext, target.projectID, action.Parameters.Version, target.commitSHA)
		if addError != nil {
			return ReleaseActionResult{}, addError
		}

		createdTags = append(createdTags, TagResult{
			ProjectID: createdTag.ProjectID,
			Name:      action.Parameters.Version,
			Link:      createdTag.CommitLink,
			MarkOnly:  upToDateProjects[createdTag.ProjectID],
		})
	}

	if cancellationToken.IsCancelled() {
		return cancelledResult(createdTags), nil
	}

	return ReleaseActionResult{MergeActionResult: mergeResult, CreatedTags: createdTags}, nil
}
