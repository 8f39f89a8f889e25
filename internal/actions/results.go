package actions

import (
	"sort"

	"github.com/temirov/branchops/internal/gitlab"
)

const (
	statusSuccessNameConstant   = "success"
	statusWarnNameConstant      = "warn"
	statusErrorNameConstant     = "error"
	statusCancelledNameConstant = "cancelled"
)

// ResultStatus summarizes an executor run.
type ResultStatus string

// Result statuses. The status is always derivable from the outcome
// collections plus the cancellation state.
const (
	StatusSuccess   ResultStatus = statusSuccessNameConstant
	StatusWarn      ResultStatus = statusWarnNameConstant
	StatusError     ResultStatus = statusErrorNameConstant
	StatusCancelled ResultStatus = statusCancelledNameConstant
)

// ActionResult is implemented by every per-kind result type.
type ActionResult interface {
	// ResultStatus returns the derived run status.
	ResultStatus() ResultStatus
}

// NotMergeReason classifies why a project was not merged. Values double as
// the presentation sort key.
type NotMergeReason int

// Merge failure categories in ascending sort order.
const (
	NotMergeReasonError      NotMergeReason = 0
	NotMergeReasonConflicts  NotMergeReason = 1
	NotMergeReasonNoAccess   NotMergeReason = 2
	NotMergeReasonNoBranches NotMergeReason = 10
	NotMergeReasonNoDiffs    NotMergeReason = 11
)

// NotMergedRequest explains one project's unmerged outcome.
type NotMergedRequest struct {
	ProjectID      int
	Reason         string
	ReasonType     NotMergeReason
	MergeRequestID int
	Link           string
	Reference      string
}

// MergeActionResult reports per-project merge outcomes.
type MergeActionResult struct {
	Status            ResultStatus
	MergedRequests    []gitlab.MergeOutcome
	NotMergedRequests []NotMergedRequest
}

// ResultStatus returns the derived run status.
func (result MergeActionResult) ResultStatus() ResultStatus {
	return result.Status
}

// TagResult describes a tag created during a release.
type TagResult struct {
	ProjectID int
	Name      string
	Link      string
	MarkOnly  bool
}

// ReleaseActionResult reports the composed merge outcome plus created tags.
type ReleaseActionResult struct {
	MergeActionResult
	CreatedTags []TagResult
}

// MovedTagInfo describes one successfully moved tag.
type MovedTagInfo struct {
	ProjectID int
	Link      string
	SHA       string
}

// NotMovedTagReason classifies why a tag was left in place. Values double as
// the presentation sort key.
type NotMovedTagReason int

// Move-tag failure categories in ascending sort order.
const (
	NotMovedTagReasonError          NotMovedTagReason = 0
	NotMovedTagReasonBranchNotFound NotMovedTagReason = 1
	NotMovedTagReasonTagNotFound    NotMovedTagReason = 2
	NotMovedTagReasonTagIsUpToDate  NotMovedTagReason = 3
)

// NotMovedTagInfo explains one project's unmoved tag.
type NotMovedTagInfo struct {
	ProjectID  int
	Reason     string
	ReasonType NotMovedTagReason
}

// MoveTagActionResult reports per-project tag move outcomes.
type MoveTagActionResult struct {
	Status       ResultStatus
	MovedTags    []MovedTagInfo
	NotMovedTags []NotMovedTagInfo
}

// ResultStatus returns the derived run status.
func (result MoveTagActionResult) ResultStatus() ResultStatus {
	return result.Status
}

// ProjectError ties an error message to one project.
type ProjectError struct {
	ProjectID int
	Message   string
}

// CheckDiffsActionResult reports which projects differ between two branches.
type CheckDiffsActionResult struct {
	Status   ResultStatus
	HasDiffs []int
	NoDiffs  []int
	Errors   []ProjectError
}

// ResultStatus returns the derived run status.
func (result CheckDiffsActionResult) ResultStatus() ResultStatus {
	return result.Status
}

// NotActualTagInfo describes a tag that drifted off the master head commit.
type NotActualTagInfo struct {
	ProjectID        int
	CommitSHA        string
	CommitLink       string
	LatestCommitSHA  string
	LatestCommitLink string
}

// CheckNonActualTagsActionResult reports tag drift findings.
type CheckNonActualTagsActionResult struct {
	Status    ResultStatus
	Actual    []int
	NonActual []NotActualTagInfo
	Errors    []ProjectError
}

// ResultStatus returns the derived run status.
func (result CheckNonActualTagsActionResult) ResultStatus() ResultStatus {
	return result.Status
}

// sortedNotMergedRequests orders outcomes ascending by reason category while
// preserving discovery order within one category.
func sortedNotMergedRequests(requests []NotMergedRequest) []NotMergedRequest {
	sorted := make([]NotMergedRequest, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(firstIndex, secondIndex int) bool {
		return sorted[firstIndex].ReasonType < sorted[secondIndex].ReasonType
	})
	return sorted
}

// sortedNotMovedTags orders outcomes ascending by reason category while
// preserving discovery order within one category.
func sortedNotMovedTags(tags []NotMovedTagInfo) []NotMovedTagInfo {
	sorted := make([]NotMovedTagInfo, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(firstIndex, secondIndex int) bool {
		return sorted[firstIndex].ReasonType < sorted[secondIndex].ReasonType
	})
	return sorted
}
