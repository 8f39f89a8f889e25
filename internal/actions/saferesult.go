package actions

import (
	"context"
	"errors"
	"time"
)

const (
	emptySafeResultPanicMessageConstant = "safe result holds neither a success nor a failure value"
	tooManyAttemptsMessageConstant      = "retry attempts exhausted before the operation resolved"
)

// ErrTooManyAttempts indicates the retry adapter ran out of attempts while
// the wrapped operation kept reporting an undetermined outcome.
var ErrTooManyAttempts = errors.New(tooManyAttemptsMessageConstant)

// SafeResult holds exactly one of a success value or a failure value.
// Construct instances through CompleteSafeResult or FailSafeResult; the zero
// value is a programming error and accessors panic on it.
type SafeResult[TResult any, TFailure any] struct {
	result  *TResult
	failure *TFailure
}

// CompleteSafeResult wraps a successful outcome.
func CompleteSafeResult[TResult any, TFailure any](result TResult) SafeResult[TResult, TFailure] {
	return SafeResult[TResult, TFailure]{result: &result}
}

// FailSafeResult wraps a failed outcome.
func FailSafeResult[TResult any, TFailure any](failure TFailure) SafeResult[TResult, TFailure] {
	return SafeResult[TResult, TFailure]{failure: &failure}
}

// HasError reports whether the container holds a failure value.
func (safeResult SafeResult[TResult, TFailure]) HasError() bool {
	return safeResult.result == nil
}

// Result returns the success value.
func (safeResult SafeResult[TResult, TFailure]) Result() TResult {
	if safeResult.result == nil {
		panic(emptySafeResultPanicMessageConstant)
	}
	return *safeResult.result
}

// Failure returns the failure value.
func (safeResult SafeResult[TResult, TFailure]) Failure() TFailure {
	if safeResult.failure == nil {
		panic(emptySafeResultPanicMessageConstant)
	}
	return *safeResult.failure
}

type retryConfiguration struct {
	maxAttempts int
	delay       time.Duration
}

// runWithRetry invokes the operation until it resolves. A nil safe result
// with a nil error signals an undetermined outcome and schedules another
// attempt after the configured delay; any resolved safe result or error
// terminates the loop. Exhausting the attempts yields ErrTooManyAttempts.
func runWithRetry[TResult any, TFailure any](
	executionContext context.Context,
	configuration retryConfiguration,
	operation func(context.Context) (*SafeResult[TResult, TFailure], error),
) (SafeResult[TResult, TFailure], error) {
	for attemptIndex := 0; attemptIndex < configuration.maxAttempts; attemptIndex++ {
		if attemptIndex > 0 {
			if waitError := waitFor(executionContext, configuration.delay); waitError != nil {
				return SafeResult[TResult, TFailure]{}, waitError
			}
		}

		outcome, operationError := operation(executionContext)
		if operationError != nil {
			return SafeResult[TResult, TFailure]{}, operationError
		}
		if outcome != nil {
			return *outcome, nil
		}
	}

	return SafeResult[TResult, TFailure]{}, ErrTooManyAttempts
}

// waitFor pauses for the duration unless the context settles first.
func waitFor(executionContext context.Context, duration time.Duration) error {
	if duration <= 0 {
		return executionContext.Err()
	}

	pauseTimer := time.NewTimer(duration)
	defer pauseTimer.Stop()

	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-pauseTimer.C:
		return nil
	}
}
