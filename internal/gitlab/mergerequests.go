package gitlab

import (
	"context"
	"fmt"
	"strings"
)

const (
	mergeRequestsEndpointTemplateConstant   = "/projects/%d/merge_requests"
	mergeRequestEndpointTemplateConstant    = "/projects/%d/merge_requests/%d"
	mergeEndpointTemplateConstant           = "/projects/%d/merge_requests/%d/merge"
	automaticMergeLabelConstant             = "merge::auto"
	upstreamMergeLabelConstant              = "merge::upstream"
	downstreamMergeLabelConstant            = "merge::downstream"
	labelSeparatorConstant                  = ","
	mergeStatusUncheckedValueConstant       = "unchecked"
	mergeStatusCheckingValueConstant        = "checking"
	defaultBranchDevelopNameConstant        = "develop"
	defaultBranchTestNameConstant           = "test"
	defaultBranchMasterNameConstant         = "master"
	mergeRequestStateOpenedValueConstant    = "opened"
	mergeRequestStateClosedValueConstant    = "closed"
	mergeRequestStateMergedValueConstant    = "merged"
	mergeRequestStateCancelledValueConstant = "cancelled"
)

// Default branch names used across the release flow.
const (
	DefaultBranchDevelop = defaultBranchDevelopNameConstant
	DefaultBranchTest    = defaultBranchTestNameConstant
	DefaultBranchMaster  = defaultBranchMasterNameConstant
)

// DefaultBranches lists the well-known branches from the most downstream to
// the most upstream; relative order determines merge direction labels.
var DefaultBranches = []string{
	DefaultBranchDevelop,
	DefaultBranchTest,
	DefaultBranchMaster,
}

// Merge request status values reported while GitLab computes mergeability.
const (
	MergeStatusUnchecked = mergeStatusUncheckedValueConstant
	MergeStatusChecking  = mergeStatusCheckingValueConstant
)

// CreateMergeRequestResult captures the outcome of merge request creation.
type CreateMergeRequestResult struct {
	ID           int
	ProjectID    int
	HasConflicts bool
	Link         string
	SourceBranch string
	TargetBranch string
	Reference    string
}

// MergeRequestDetails describes the merge request state relevant to merging.
type MergeRequestDetails struct {
	ID                       int
	ProjectID                int
	Title                    string
	SourceBranch             string
	TargetBranch             string
	Labels                   []string
	Draft                    bool
	HasConflicts             bool
	Link                     string
	State                    string
	Status                   string
	FromCommitSHA            string
	CanBeMergedByCurrentUser bool
	MergeError               string
	Reference                string
}

// MergeOutcome captures the observable result of merging a merge request.
type MergeOutcome struct {
	ID             int
	ProjectID      int
	HasConflicts   bool
	Link           string
	MergeCommitSHA string
	MergeError     string
	Reference      string
}

// CreateMergeRequest opens a merge request from source into target with the
// automatic merge labels attached.
func (client *Client) CreateMergeRequest(executionContext context.Context, projectID int, sourceBranch string, targetBranch string, title string) (CreateMergeRequestResult, error) {
	payload := struct {
		SourceBranch string `json:"source_branch"`
		TargetBranch string `json:"target_branch"`
		Title        string `json:"title"`
		Labels       string `json:"labels"`
	}{SourceBranch: sourceBranch, TargetBranch: targetBranch, Title: title, Labels: mergeRequestLabels(sourceBranch, targetBranch)}

	var response struct {
		IID          int    `json:"iid"`
		HasConflicts bool   `json:"has_conflicts"`
		WebURL       string `json:"web_url"`
		References   struct {
			Short string `json:"short"`
		} `json:"references"`
	}
	requestError := client.post(executionContext, fmt.Sprintf(mergeRequestsEndpointTemplateConstant, projectID), payload, &response)
	if requestError != nil {
		return CreateMergeRequestResult{}, requestError
	}

	return CreateMergeRequestResult{
		ID:           response.IID,
		ProjectID:    projectID,
		HasConflicts: response.HasConflicts,
		Link:         response.WebURL,
		SourceBranch: sourceBranch,
		TargetBranch: targetBranch,
		Reference:    response.References.Short,
	}, nil
}

// GetMergeRequestInfo retrieves mergeability details for a merge request.
func (client *Client) GetMergeRequestInfo(executionContext context.Context, projectID int, mergeRequestID int) (MergeRequestDetails, error) {
	var response struct {
		IID            int      `json:"iid"`
		ProjectID      int      `json:"project_id"`
		Title          string   `json:"title"`
		State          string   `json:"state"`
		TargetBranch   string   `json:"target_branch"`
		SourceBranch   string   `json:"source_branch"`
		Labels         []string `json:"labels"`
		WorkInProgress bool     `json:"work_in_progress"`
		MergeStatus    string   `json:"merge_status"`
		SHA            string   `json:"sha"`
		WebURL         string   `json:"web_url"`
		HasConflicts   bool     `json:"has_conflicts"`
		MergeError     string   `json:"merge_error"`
		User           struct {
			CanMerge bool `json:"can_merge"`
		} `json:"user"`
		References struct {
			Short string `json:"short"`
		} `json:"references"`
	}
	requestError := client.get(executionContext, fmt.Sprintf(mergeRequestEndpointTemplateConstant, projectID, mergeRequestID), nil, &response)
	if requestError != nil {
		return MergeRequestDetails{}, requestError
	}

	return MergeRequestDetails{
		ID:                       response.IID,
		ProjectID:                response.ProjectID,
		Title:                    response.Title,
		SourceBranch:             response.SourceBranch,
		TargetBranch:             response.TargetBranch,
		Labels:                   response.Labels,
		Draft:                    response.WorkInProgress,
		HasConflicts:             response.HasConflicts,
		Link:                     response.WebURL,
		State:                    response.State,
		Status:                   response.MergeStatus,
		FromCommitSHA:            response.SHA,
		CanBeMergedByCurrentUser: response.User.CanMerge,
		MergeError:               response.MergeError,
		Reference:                response.References.Short,
	}, nil
}

// Merge accepts the merge request and reports the resulting merge commit.
func (client *Client) Merge(executionContext context.Context, projectID int, mergeRequestID int) (MergeOutcome, error) {
	payload := struct {
		ID              int `json:"id"`
		MergeRequestIID int `json:"merge_request_iid"`
	}{ID: projectID, MergeRequestIID: mergeRequestID}

	var response struct {
		MergeCommitSHA string `json:"merge_commit_sha"`
		HasConflicts   bool   `json:"has_conflicts"`
		MergeError     string `json:"merge_error"`
		WebURL         string `json:"web_url"`
		References     struct {
			Short string `json:"short"`
		} `json:"references"`
	}
	requestError := client.put(executionContext, fmt.Sprintf(mergeEndpointTemplateConstant, projectID, mergeRequestID), payload, &response)
	if requestError != nil {
		return MergeOutcome{}, requestError
	}

	return MergeOutcome{
		ID:             mergeRequestID,
		ProjectID:      projectID,
		HasConflicts:   response.HasConflicts,
		Link:           response.WebURL,
		MergeCommitSHA: response.MergeCommitSHA,
		MergeError:     response.MergeError,
		Reference:      response.References.Short,
	}, nil
}

// mergeRequestLabels selects direction labels from the relative order of the
// default branches; unknown branches fall back to upstream.
func mergeRequestLabels(sourceBranch string, targetBranch string) string {
	labels := []string{automaticMergeLabelConstant}

	sourceBranchIndex := defaultBranchIndex(sourceBranch)
	targetBranchIndex := defaultBranchIndex(targetBranch)

	if sourceBranchIndex > targetBranchIndex {
		labels = append(labels, downstreamMergeLabelConstant)
	} else {
		labels = append(labels, upstreamMergeLabelConstant)
	}

	return strings.Join(labels, labelSeparatorConstant)
}

func defaultBranchIndex(branchName string) int {
	for branchIndex, defaultBranchName := range DefaultBranches {
		if defaultBranchName == branchName {
			return branchIndex
		}
	}
	return -1
}
