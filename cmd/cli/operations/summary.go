package operations

import (
	"fmt"
	"io"

	"github.com/temirov/branchops/internal/actions"
	"github.com/temirov/branchops/internal/results"
)

const (
	summaryHeaderTemplateConstant         = "%s [%s] status: %s\n"
	summaryDurationTemplateConstant       = "completed in %.2f %s\n"
	summaryMergedTemplateConstant         = "MERGED: project %d %s\n"
	summaryNotMergedTemplateConstant      = "NOT MERGED: project %d: %s\n"
	summaryCreatedTagTemplateConstant     = "TAGGED: project %d %s (%s)\n"
	summaryMarkOnlySuffixConstant         = "mark only"
	summaryMergedTagSuffixConstant        = "after merge"
	summaryMovedTemplateConstant          = "MOVED: project %d -> %s\n"
	summaryNotMovedTemplateConstant       = "NOT MOVED: project %d: %s\n"
	summaryHasDiffsTemplateConstant       = "DIFFS: project %d\n"
	summaryNoDiffsTemplateConstant        = "NO DIFFS: project %d\n"
	summaryProjectErrorTemplateConstant   = "ERROR: project %d: %s\n"
	summaryActualTagTemplateConstant      = "ACTUAL: project %d\n"
	summaryNonActualTagTemplateConstant   = "NON-ACTUAL: project %d tag %s behind %s\n"
	summaryOperationErrorTemplateConstant = "FAILED: %s\n"
)

// renderSummary prints the per-project outcome lines for a settled
// operation.
func renderSummary(writer io.Writer, operationResult results.OperationResult) {
	status := ""
	if operationResult.Result != nil {
		status = string(operationResult.Result.ResultStatus())
	}
	fmt.Fprintf(writer, summaryHeaderTemplateConstant, operationResult.Kind.Description(), operationResult.ShortID, status)

	if operationResult.Error != "" {
		fmt.Fprintf(writer, summaryOperationErrorTemplateConstant, operationResult.Error)
		return
	}

	switch actionResult := operationResult.Result.(type) {
	case actions.MergeActionResult:
		renderMergeSummary(writer, actionResult)
	case actions.ReleaseActionResult:
		renderMergeSummary(writer, actionResult.MergeActionResult)
		for _, createdTag := range actionResult.CreatedTags {
			origin := summaryMergedTagSuffixConstant
			if createdTag.MarkOnly {
				origin = summaryMarkOnlySuffixConstant
			}
			fmt.Fprintf(writer, summaryCreatedTagTemplateConstant, createdTag.ProjectID, createdTag.Name, origin)
		}
	case actions.MoveTagActionResult:
		for _, movedTag := range actionResult.MovedTags {
			fmt.Fprintf(writer, summaryMovedTemplateConstant, movedTag.ProjectID, movedTag.SHA)
		}
		for _, notMovedTag := range actionResult.NotMovedTags {
			fmt.Fprintf(writer, summaryNotMovedTemplateConstant, notMovedTag.ProjectID, notMovedTag.Reason)
		}
	case actions.CheckDiffsActionResult:
		for _, projectID := range actionResult.HasDiffs {
			fmt.Fprintf(writer, summaryHasDiffsTemplateConstant, projectID)
		}
		for _, projectID := range actionResult.NoDiffs {
			fmt.Fprintf(writer, summaryNoDiffsTemplateConstant, projectID)
		}
		for _, projectError := range actionResult.Errors {
			fmt.Fprintf(writer, summaryProjectErrorTemplateConstant, projectError.ProjectID, projectError.Message)
		}
	case actions.CheckNonActualTagsActionResult:
		for _, projectID := range actionResult.Actual {
			fmt.Fprintf(writer, summaryActualTagTemplateConstant, projectID)
		}
		for _, nonActualTag := range actionResult.NonActual {
			fmt.Fprintf(writer, summaryNonActualTagTemplateConstant, nonActualTag.ProjectID, nonActualTag.CommitSHA, nonActualTag.LatestCommitSHA)
		}
		for _, projectError := range actionResult.Errors {
			fmt.Fprintf(writer, summaryProjectErrorTemplateConstant, projectError.ProjectID, projectError.Message)
		}
	}

	if operationResult.CompletionTime != nil {
		fmt.Fprintf(writer, summaryDurationTemplateConstant, operationResult.CompletionTime.Value, operationResult.CompletionTime.Measurement)
	}
}

func renderMergeSummary(writer io.Writer, mergeResult actions.MergeActionResult) {
	for _, mergedRequest := range mergeResult.MergedRequests {
		fmt.Fprintf(writer, summaryMergedTemplateConstant, mergedRequest.ProjectID, mergedRequest.Reference)
	}
	for _, notMergedRequest := range mergeResult.NotMergedRequests {
		fmt.Fprintf(writer, summaryNotMergedTemplateConstant, notMergedRequest.ProjectID, notMergedRequest.Reason)
	}
}
