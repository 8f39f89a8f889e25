package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/branchops/internal/actions"
	"github.com/temirov/branchops/internal/results"
)

const (
	runnerEngineMissingMessageConstant  = "plan runner requires an action engine"
	runnerHistoryMissingMessageConstant = "plan runner requires a result history"
	stepFailureTemplateConstant         = "plan step %d (%s) failed: %w"
	planCancelledMessageConstant        = "plan cancelled before all steps completed"
	stepStartedMessageConstant          = "plan step started"
	stepSettledMessageConstant          = "plan step settled"
	logFieldStepIndexConstant           = "step_index"
	logFieldStepOperationConstant       = "operation"
	logFieldResultStatusConstant        = "result_status"
)

// ErrPlanCancelled indicates the shared cancellation token fired before the
// remaining steps could run.
var ErrPlanCancelled = errors.New(planCancelledMessageConstant)

// RunnerDependencies configures collaborators for plan execution.
type RunnerDependencies struct {
	Engine  *actions.Engine
	History *results.History
	Logger  *zap.Logger
}

// Runner executes plan steps sequentially, recording every settled step into
// the result history.
type Runner struct {
	engine  *actions.Engine
	history *results.History
	logger  *zap.Logger
}

// NewRunner constructs a Runner after validating its dependencies.
func NewRunner(dependencies RunnerDependencies) (*Runner, error) {
	if dependencies.Engine == nil {
		return nil, errors.New(runnerEngineMissingMessageConstant)
	}
	if dependencies.History == nil {
		return nil, errors.New(runnerHistoryMissingMessageConstant)
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{engine: dependencies.Engine, history: dependencies.History, logger: logger}, nil
}

// Run executes the plan's actions in order, sharing one cancellation token
// across all steps. Completed steps keep their history entries when a later
// step fails or the token fires.
func (runner *Runner) Run(executionContext context.Context, planActions []actions.Action, cancellationToken *actions.CancellationToken) error {
	for actionIndex, action := range planActions {
		if cancellationToken.IsCancelled() {
			return ErrPlanCancelled
		}

		runner.logger.Info(
			stepStartedMessageConstant,
			zap.Int(logFieldStepIndexConstant, actionIndex),
			zap.Stringer(logFieldStepOperationConstant, action.ActionKind()),
		)

		startedAt := time.Now()
		actionResult, actionError := runner.engine.PerformAction(executionContext, action, cancellationToken)
		completedAt := time.Now()

		buildOptions := results.BuildOptions{StartedAt: &startedAt, CompletedAt: &completedAt}
		if actionError != nil {
			buildOptions.Error = actionError.Error()
		} else {
			buildOptions.Result = actionResult
		}

		runner.history.Add(results.BuildOperationResult(action.ActionKind(), action.TargetProjects(), buildOptions))

		if actionError != nil {
			return fmt.Errorf(stepFailureTemplateConstant, actionIndex, action.ActionKind(), actionError)
		}

		runner.logger.Info(
			stepSettledMessageConstant,
			zap.Int(logFieldStepIndexConstant, actionIndex),
			zap.Stringer(logFieldStepOperationConstant, action.ActionKind()),
			zap.String(logFieldResultStatusConstant, string(actionResult.ResultStatus())),
		)

		if actionResult.ResultStatus() == actions.StatusCancelled {
			return ErrPlanCancelled
		}
	}

	return nil
}
