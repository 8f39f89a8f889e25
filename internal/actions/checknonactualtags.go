package actions

import (
	"context"
	"fmt"
	"sort"

	"github.com/temirov/branchops/internal/gitlab"
)

const (
	masterBranchNotFoundReasonConstant   = "Master branch not found"
	tagNotFoundReasonConstant            = "Tag not found"
	tagUpToDateReasonConstant            = "Tag is up to date"
	executionErrorReasonTemplateConstant = "Error during execution, %v"
)

// tagAuditReason orders tag-audit error records for presentation.
type tagAuditReason int

const (
	tagAuditReasonError          tagAuditReason = 0
	tagAuditReasonBranchNotFound tagAuditReason = 1
	tagAuditReasonTagNotFound    tagAuditReason = 2
)

type tagAuditError struct {
	projectID int
	message   string
	reason    tagAuditReason
}

// performCheckNonActualTags audits every project's target tag against the
// master head commit. Findings split into actual, non-actual (SHA drift),
// and categorized errors sorted by severity.
func (engine *Engine) performCheckNonActualTags(executionContext context.Context, action CheckNonActualTagsAction, cancellationToken *CancellationToken) (CheckNonActualTagsActionResult, error) {
	actual := []int{}
	nonActual := []NotActualTagInfo{}
	auditErrors := []tagAuditError{}

	cancelledResult := func() CheckNonActualTagsActionResult {
		return CheckNonActualTagsActionResult{
			Status:    StatusCancelled,
			Actual:    actual,
			NonActual: nonActual,
			Errors:    sortedTagAuditErrors(auditErrors),
		}
	}

	for _, projectID := range action.TargetProjects() {
		if cancellationToken.IsCancelled() {
			return cancelledResult(), nil
		}

		hasBranch, branchCheckError := engine.client.CheckHasBranch(executionContext, projectID, gitlab.DefaultBranchMaster)
		if branchCheckError != nil {
			auditErrors = append(auditErrors, tagAuditError{projectID: projectID, message: fmt.Sprintf(executionErrorReasonTemplateConstant, branchCheckError), reason: tagAuditReasonError})
			continue
		}

		if !hasBranch {
			auditErrors = append(auditErrors, tagAuditError{projectID: projectID, message: masterBranchNotFoundReasonConstant, reason: tagAuditReasonBranchNotFound})
			continue
		}

		branchInfo, branchInfoError := engine.client.GetBranchInfo(executionContext, projectID, gitlab.DefaultBranchMaster)
		if branchInfoError != nil {
			auditErrors = append(auditErrors, tagAuditError{projectID: projectID, message: fmt.Sprintf(executionErrorReasonTemplateConstant, branchInfoError), reason: tagAuditReasonError})
			continue
		}

		tagInfo, tagError := engine.client.GetTag(executionContext, projectID, action.Parameters.Name)
		if tagError != nil {
			auditErrors = append(auditErrors, tagAuditError{projectID: projectID, message: fmt.Sprintf(executionErrorReasonTemplateConstant, tagError), reason: tagAuditReasonError})
			continue
		}

		if tagInfo == nil {
			auditErrors = append(auditErrors, tagAuditError{projectID: projectID, message: tagNotFoundReasonConstant, reason: tagAuditReasonTagNotFound})
			continue
		}

		if tagInfo.CommitSHA != branchInfo.CommitSHA {
			nonActual = append(nonActual, NotActualTagInfo{
				ProjectID:        projectID,
				CommitSHA:        tagInfo.CommitSHA,
				CommitLink:       tagInfo.CommitLink,
				LatestCommitSHA:  branchInfo.CommitSHA,
				LatestCommitLink: branchInfo.CommitLink,
			})
			continue
		}

		actual = append(actual, projectID)
	}

	if cancellationToken.IsCancelled() {
		return cancelledResult(), nil
	}

	status := StatusSuccess
	if len(auditErrors) > 0 {
		status = StatusWarn
		if len(actual) == 0 && len(nonActual) == 0 {
			status = StatusError
		}
	}

	return CheckNonActualTagsActionResult{
		Status:    status,
		Actual:    actual,
		NonActual: nonActual,
		Errors:    sortedTagAuditErrors(auditErrors),
	}, nil
}

// sortedTagAuditErrors orders errors ascending by severity category while
// preserving discovery order within one category, then strips the category.
func sortedTagAuditErrors(auditErrors []tagAuditError) []ProjectError {
	sorted := make([]tagAuditError, len(auditErrors))
	copy(sorted, auditErrors)
	sort.SliceStable(sorted, func(firstIndex, secondIndex int) bool {
		return sorted[firstIndex].reason < sorted[secondIndex].reason
	})

	projectErrors := make([]ProjectError, 0, len(sorted))
	for _, auditError := range sorted {
		projectErrors = append(projectErrors, ProjectError{ProjectID: auditError.projectID, Message: auditError.message})
	}
	return projectErrors
}
