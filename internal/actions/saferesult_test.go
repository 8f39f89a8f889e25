package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeResultAccessors(testInstance *testing.T) {
	success := CompleteSafeResult[int, string](42)
	require.False(testInstance, success.HasError())
	require.Equal(testInstance, 42, success.Result())

	failure := FailSafeResult[int]("broken")
	require.True(testInstance, failure.HasError())
	require.Equal(testInstance, "broken", failure.Failure())
}

func TestSafeResultEmptyValuePanics(testInstance *testing.T) {
	empty := SafeResult[int, string]{}
	require.PanicsWithValue(testInstance, emptySafeResultPanicMessageConstant, func() { empty.Result() })
	require.PanicsWithValue(testInstance, emptySafeResultPanicMessageConstant, func() { empty.Failure() })
}

func TestRunWithRetryResolvesAfterUndeterminedAttempts(testInstance *testing.T) {
	attemptCount := 0
	outcome, retryError := runWithRetry(context.Background(), retryConfiguration{maxAttempts: 3}, func(context.Context) (*SafeResult[int, string], error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, nil
		}
		resolved := CompleteSafeResult[int, string](attemptCount)
		return &resolved, nil
	})

	require.NoError(testInstance, retryError)
	require.Equal(testInstance, 3, outcome.Result())
	require.Equal(testInstance, 3, attemptCount)
}

func TestRunWithRetryExhaustion(testInstance *testing.T) {
	attemptCount := 0
	_, retryError := runWithRetry(context.Background(), retryConfiguration{maxAttempts: 3}, func(context.Context) (*SafeResult[int, string], error) {
		attemptCount++
		return nil, nil
	})

	require.ErrorIs(testInstance, retryError, ErrTooManyAttempts)
	require.Equal(testInstance, 3, attemptCount)
}

func TestRunWithRetryPropagatesOperationError(testInstance *testing.T) {
	operationFault := errors.New("transport failed")
	_, retryError := runWithRetry(context.Background(), retryConfiguration{maxAttempts: 3}, func(context.Context) (*SafeResult[int, string], error) {
		return nil, operationFault
	})

	require.ErrorIs(testInstance, retryError, operationFault)
}

func TestRunWithRetryStopsOnCancelledContext(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	attemptCount := 0
	_, retryError := runWithRetry(cancelledContext, retryConfiguration{maxAttempts: 3}, func(context.Context) (*SafeResult[int, string], error) {
		attemptCount++
		return nil, nil
	})

	require.ErrorIs(testInstance, retryError, context.Canceled)
	require.Equal(testInstance, 1, attemptCount)
}
