package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchops/internal/gitlab"
)

const (
	testReleaseVersionConstant          = "v3.0.0"
	testReleaseMergeRequestNameConstant = "Release v3.0.0"
)

func testReleaseAction(parameters ReleaseParameters, projects ...int) ReleaseAction {
	return NewReleaseAction(projects, parameters)
}

func TestPerformReleaseTagsMergedAndUpToDateProjects(testInstance *testing.T) {
	stub := newStubResourceClient()

	// project 1 has pending changes and gets merged
	stub.hasDiffs[1] = true
	stub.createResults[1] = gitlab.CreateMergeRequestResult{ID: 11, ProjectID: 1}
	stub.infoQueues[1] = []gitlab.MergeRequestDetails{readyMergeRequestDetails(11)}
	stub.mergeOutcomes[1] = gitlab.MergeOutcome{ID: 11, ProjectID: 1, MergeCommitSHA: "merge111"}

	// project 2 has nothing to merge and is tagged at its master head
	stub.hasDiffs[2] = false
	stub.branchInfos[2] = gitlab.Branch{ProjectID: 2, CommitSHA: "head222", CommitLink: "https://gitlab.example.com/c/head222"}

	engine := newTestEngine(stub)
	result, executionError := engine.performRelease(context.Background(), testReleaseAction(ReleaseParameters{
		Version:            testReleaseVersionConstant,
		MergeRequestName:   testReleaseMergeRequestNameConstant,
		SetVersionTagAfter: true,
	}, 1, 2), NewCancellationToken())

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, StatusWarn, result.Status)
	require.Len(testInstance, result.MergedRequests, 1)
	require.Len(testInstance, result.NotMergedRequests, 1)
	require.Equal(testInstance, NotMergeReasonNoDiffs, result.NotMergedRequests[0].ReasonType)

	require.Len(testInstance, result.CreatedTags, 1)
	require.Equal(testInstance, 1, result.CreatedTags[0].ProjectID)
	require.Equal(testInstance, testReleaseVersionConstant, result.CreatedTags[0].Name)
	require.False(testInstance, result.CreatedTags[0].MarkOnly)
	require.Equal(testInstance, []stubTagAddition{{projectID: 1, tagName: testReleaseVersionConstant, commitSHA: "merge111"}}, stub.addedTags)
}

func TestPerformReleaseNothingMergedCreatesNoTags(testInstance *testing.T) {
	stub := newStubResourceClient()
	stub.hasDiffs[1] = false
	stub.hasDiffs[2] = false

	engine := newTestEngine(stub)
	result, executionError := engine.performRelease(context.Background(), testReleaseAction(ReleaseParameters{
		Version:            testReleaseVersionConstant,
		MergeRequestName:   testReleaseMergeRequestNameConstant,
		SetVersionTagAfter: true,
	}, 1, 2), NewCancellationToken())

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, StatusError, result.Status)
	require.Len(testInstance, result.NotMergedRequests, 2)
	require.Empty(testInstance, result.CreatedTags)
	require.Empty(testInstance, stub.addedTags)
}

func TestPerformReleaseWithoutVersionTag(testInstance *testing.T) {
	stub := newStubResourceClient()
	stub.hasDiffs[1] = true
	stub.createResults[1] = gitlab.CreateMergeRequestResult{ID: 11, ProjectID: 1}
	stub.infoQueues[1] = []gitlab.MergeRequestDetails{readyMergeRequestDetails(11)}
	stub.mergeOutcomes[1] = gitlab.MergeOutcome{ID: 11, ProjectID: 1, MergeCommitSHA: "merge111"}

	engine := newTestEngine(stub)
	result, executionError := engine.performRelease(context.Background(), testReleaseAction(ReleaseParameters{
		Version:          testReleaseVersionConstant,
		MergeRequestName: testReleaseMergeRequestNameConstant,
	}, 1), NewCancellationToken())

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, StatusSuccess, result.Status)
	require.Len(testInstance, result.MergedRequests, 1)
	require.Empty(testInstance, result.CreatedTags)
	require.Empty(testInstance, stub.addedTags)
}

func TestPerformReleaseCancelledDuringMerge(testInstance *testing.T) {
	stub := newStubResourceClient()
	stub.hasDiffs[1] = false
	stub.hasDiffs[2] = false
	token := NewCancellationToken()
	stub.afterCall = func(method string, projectID int) {
		if method == "CheckHasDiffs" && projectID == 1 {
			token.Cancel()
		}
	}

	engine := newTestEngine(stub)
	result, executionError := engine.performRelease(context.Background(), testReleaseAction(ReleaseParameters{
		Version:            testReleaseVersionConstant,
		MergeRequestName:   testReleaseMergeRequestNameConstant,
		SetVersionTagAfter: true,
	}, 1, 2), token)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, StatusCancelled, result.Status)
	require.Len(testInstance, result.NotMergedRequests, 1)
	require.Empty(testInstance, result.CreatedTags)
	require.Empty(testInstance, stub.addedTags)
}
