package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateMergeRequest(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, http.MethodPost, request.Method)
		require.Equal(testInstance, "/api/v4/projects/7/merge_requests", request.URL.Path)

		var payload map[string]any
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&payload))
		require.Equal(testInstance, "develop", payload["source_branch"])
		require.Equal(testInstance, "test", payload["target_branch"])
		require.Equal(testInstance, "Merge develop into test", payload["title"])
		require.Equal(testInstance, "merge::auto,merge::upstream", payload["labels"])

		_, _ = responseWriter.Write([]byte(`{
			"iid": 42,
			"has_conflicts": false,
			"web_url": "https://gitlab.example.com/group/project/-/merge_requests/42",
			"references": {"short": "!42"}
		}`))
	}))

	createdRequest, requestError := client.CreateMergeRequest(context.Background(), 7, "develop", "test", "Merge develop into test")
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, CreateMergeRequestResult{
		ID:           42,
		ProjectID:    7,
		Link:         "https://gitlab.example.com/group/project/-/merge_requests/42",
		SourceBranch: "develop",
		TargetBranch: "test",
		Reference:    "!42",
	}, createdRequest)
}

func TestMergeRequestLabelsFollowBranchDirection(testInstance *testing.T) {
	testCases := []struct {
		name           string
		sourceBranch   string
		targetBranch   string
		expectedLabels string
	}{
		{name: "upstream_develop_to_test", sourceBranch: "develop", targetBranch: "test", expectedLabels: "merge::auto,merge::upstream"},
		{name: "upstream_test_to_master", sourceBranch: "test", targetBranch: "master", expectedLabels: "merge::auto,merge::upstream"},
		{name: "downstream_master_to_develop", sourceBranch: "master", targetBranch: "develop", expectedLabels: "merge::auto,merge::downstream"},
		{name: "unknown_branch_defaults_upstream", sourceBranch: "feature", targetBranch: "develop", expectedLabels: "merge::auto,merge::upstream"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			require.Equal(subtestInstance, testCase.expectedLabels, mergeRequestLabels(testCase.sourceBranch, testCase.targetBranch))
		})
	}
}

func TestGetMergeRequestInfo(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v4/projects/7/merge_requests/42", request.URL.Path)
		_, _ = responseWriter.Write([]byte(`{
			"iid": 42,
			"project_id": 7,
			"title": "Merge develop into test",
			"state": "opened",
			"target_branch": "test",
			"source_branch": "develop",
			"labels": ["merge::auto"],
			"work_in_progress": false,
			"merge_status": "can_be_merged",
			"sha": "abc123",
			"web_url": "https://gitlab.example.com/group/project/-/merge_requests/42",
			"has_conflicts": false,
			"user": {"can_merge": true},
			"references": {"short": "!42"}
		}`))
	}))

	requestInfo, requestError := client.GetMergeRequestInfo(context.Background(), 7, 42)
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, 42, requestInfo.ID)
	require.Equal(testInstance, 7, requestInfo.ProjectID)
	require.Equal(testInstance, "can_be_merged", requestInfo.Status)
	require.Equal(testInstance, "abc123", requestInfo.FromCommitSHA)
	require.True(testInstance, requestInfo.CanBeMergedByCurrentUser)
	require.False(testInstance, requestInfo.HasConflicts)
	require.Equal(testInstance, "!42", requestInfo.Reference)
}

func TestMerge(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, http.MethodPut, request.Method)
		require.Equal(testInstance, "/api/v4/projects/7/merge_requests/42/merge", request.URL.Path)
		_, _ = responseWriter.Write([]byte(`{
			"merge_commit_sha": "def456",
			"has_conflicts": false,
			"web_url": "https://gitlab.example.com/group/project/-/merge_requests/42",
			"references": {"short": "!42"}
		}`))
	}))

	mergeOutcome, requestError := client.Merge(context.Background(), 7, 42)
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, MergeOutcome{
		ID:             42,
		ProjectID:      7,
		Link:           "https://gitlab.example.com/group/project/-/merge_requests/42",
		MergeCommitSHA: "def456",
		Reference:      "!42",
	}, mergeOutcome)
}
