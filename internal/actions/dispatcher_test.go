package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchops/internal/gitlab"
)

type unregisteredKindAction struct {
	actionBase
}

func TestNewEngineRequiresResourceClient(testInstance *testing.T) {
	_, engineError := NewEngine(EngineDependencies{})
	require.ErrorIs(testInstance, engineError, ErrResourceClientNotConfigured)
}

func TestPerformActionDispatchesByKind(testInstance *testing.T) {
	stub := newStubResourceClient()
	stub.hasDiffs[1] = true

	engine := newTestEngine(stub)
	result, executionError := engine.PerformAction(context.Background(), testCheckDiffsAction(1), NewCancellationToken())

	require.NoError(testInstance, executionError)
	checkDiffsResult, conversionOK := result.(CheckDiffsActionResult)
	require.True(testInstance, conversionOK)
	require.Equal(testInstance, StatusSuccess, checkDiffsResult.ResultStatus())
}

func TestPerformActionRejectsUnregisteredKind(testInstance *testing.T) {
	engine := newTestEngine(newStubResourceClient())
	action := unregisteredKindAction{actionBase: newActionBase(Kind(42), []int{1})}

	_, executionError := engine.PerformAction(context.Background(), action, NewCancellationToken())

	require.Error(testInstance, executionError)
	var operationError *OperationError
	require.ErrorAs(testInstance, executionError, &operationError)
	require.Nil(testInstance, operationError.Cause)
}

func TestPerformActionWrapsEscapedExecutorFaults(testInstance *testing.T) {
	stub := newStubResourceClient()
	transportFault := errors.New("gateway timeout")
	stub.hasDiffs[1] = true
	stub.createResults[1] = gitlab.CreateMergeRequestResult{ID: 11, ProjectID: 1}
	stub.infoErrors[1] = transportFault

	engine := newTestEngine(stub)
	_, executionError := engine.PerformAction(context.Background(), testMergeAction(1), NewCancellationToken())

	var operationError *OperationError
	require.ErrorAs(testInstance, executionError, &operationError)
	require.ErrorIs(testInstance, executionError, transportFault)
}

func TestKindNamesAndDescriptions(testInstance *testing.T) {
	testCases := []struct {
		name         string
		kind         Kind
		expectedName string
	}{
		{name: "merge", kind: KindMerge, expectedName: "merge"},
		{name: "release", kind: KindRelease, expectedName: "release"},
		{name: "move_tag", kind: KindMoveTag, expectedName: "move-tag"},
		{name: "check_diffs", kind: KindCheckDiffs, expectedName: "check-diffs"},
		{name: "check_tags", kind: KindCheckNonActualTags, expectedName: "check-tags"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			require.Equal(subtestInstance, testCase.expectedName, testCase.kind.String())
			require.NotEmpty(subtestInstance, testCase.kind.Description())
		})
	}
}
