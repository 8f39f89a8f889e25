package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckHasBranch(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v4/projects/7/repository/branches", request.URL.Path)
		require.Equal(testInstance, "master", request.URL.Query().Get("search"))
		_, _ = responseWriter.Write([]byte(`[{"name": "master"}]`))
	}))

	hasBranch, requestError := client.CheckHasBranch(context.Background(), 7, "master")
	require.NoError(testInstance, requestError)
	require.True(testInstance, hasBranch)
}

func TestCheckHasBranchEmptyResult(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		_, _ = responseWriter.Write([]byte(`[]`))
	}))

	hasBranch, requestError := client.CheckHasBranch(context.Background(), 7, "master")
	require.NoError(testInstance, requestError)
	require.False(testInstance, hasBranch)
}

func TestGetBranchInfo(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v4/projects/7/repository/branches/master", request.URL.Path)
		_, _ = responseWriter.Write([]byte(`{
			"name": "master",
			"web_url": "https://gitlab.example.com/group/project/-/tree/master",
			"commit": {"id": "abc123", "web_url": "https://gitlab.example.com/group/project/-/commit/abc123"}
		}`))
	}))

	branchInfo, requestError := client.GetBranchInfo(context.Background(), 7, "master")
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, Branch{
		ProjectID:  7,
		Name:       "master",
		CommitSHA:  "abc123",
		CommitLink: "https://gitlab.example.com/group/project/-/commit/abc123",
		Link:       "https://gitlab.example.com/group/project/-/tree/master",
	}, branchInfo)
}

func TestCheckHasDiffsComparesTargetToSource(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v4/projects/7/repository/compare", request.URL.Path)
		require.Equal(testInstance, "test", request.URL.Query().Get("from"))
		require.Equal(testInstance, "develop", request.URL.Query().Get("to"))
		_, _ = responseWriter.Write([]byte(`{"diffs": [{"new_path": "main.go"}]}`))
	}))

	hasDiffs, requestError := client.CheckHasDiffs(context.Background(), 7, "develop", "test")
	require.NoError(testInstance, requestError)
	require.True(testInstance, hasDiffs)
}

func TestCheckHasDiffsEmptyComparison(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		_, _ = responseWriter.Write([]byte(`{"diffs": []}`))
	}))

	hasDiffs, requestError := client.CheckHasDiffs(context.Background(), 7, "develop", "test")
	require.NoError(testInstance, requestError)
	require.False(testInstance, hasDiffs)
}

func TestCreateBranch(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, http.MethodPost, request.Method)
		require.Equal(testInstance, "/api/v4/projects/7/repository/branches", request.URL.Path)

		var payload map[string]any
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&payload))
		require.Equal(testInstance, "release-candidate", payload["branch"])
		require.Equal(testInstance, "abc123", payload["ref"])

		_, _ = responseWriter.Write([]byte(`{
			"name": "release-candidate",
			"web_url": "https://gitlab.example.com/group/project/-/tree/release-candidate",
			"commit": {"id": "abc123", "web_url": "https://gitlab.example.com/group/project/-/commit/abc123"}
		}`))
	}))

	createdBranch, requestError := client.CreateBranch(context.Background(), 7, "abc123", "release-candidate")
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, "release-candidate", createdBranch.Name)
	require.Equal(testInstance, "abc123", createdBranch.CommitSHA)
}

func TestGetCommitInfo(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v4/projects/7/repository/commits/abc123", request.URL.Path)
		_, _ = responseWriter.Write([]byte(`{"web_url": "https://gitlab.example.com/group/project/-/commit/abc123"}`))
	}))

	commitInfo, requestError := client.GetCommitInfo(context.Background(), 7, "abc123")
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, Commit{ProjectID: 7, SHA: "abc123", Link: "https://gitlab.example.com/group/project/-/commit/abc123"}, commitInfo)
}
