package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/branchops/internal/gitlab"
)

const (
	resourceClientMissingMessageConstant      = "resource client not configured"
	handlerMissingTemplateConstant            = "operation type %q is not registered"
	operationFailureTemplateConstant          = "error during performing operation %q"
	invalidActionTypeTemplateConstant         = "action of kind %q carries an unexpected configuration type %T"
	operationErrorTemplateConstant            = "%s"
	operationErrorWithCauseTemplateConstant   = "%s: %v"
	defaultWarmUpDelayConstant                = 1500 * time.Millisecond
	defaultMergeSettleDelayConstant           = 1500 * time.Millisecond
	defaultRetryIntervalConstant              = 6 * time.Second
	defaultRetryAttemptsConstant              = 3
	performActionStartedMessageConstant       = "performing action"
	performActionSettledMessageConstant       = "action settled"
	logFieldActionKindConstant                = "action_kind"
	logFieldActionIdentifierConstant          = "action_id"
	logFieldProjectCountConstant              = "project_count"
	logFieldResultStatusConstant              = "result_status"
)

// ErrResourceClientNotConfigured indicates the engine was constructed
// without a resource client.
var ErrResourceClientNotConfigured = errors.New(resourceClientMissingMessageConstant)

// ResourceClient is the narrow GitLab surface the executors consume.
type ResourceClient interface {
	CheckHasDiffs(executionContext context.Context, projectID int, sourceBranch string, targetBranch string) (bool, error)
	CreateMergeRequest(executionContext context.Context, projectID int, sourceBranch string, targetBranch string, title string) (gitlab.CreateMergeRequestResult, error)
	GetMergeRequestInfo(executionContext context.Context, projectID int, mergeRequestID int) (gitlab.MergeRequestDetails, error)
	Merge(executionContext context.Context, projectID int, mergeRequestID int) (gitlab.MergeOutcome, error)
	CheckHasBranch(executionContext context.Context, projectID int, branchName string) (bool, error)
	GetBranchInfo(executionContext context.Context, projectID int, branchName string) (gitlab.Branch, error)
	GetTag(executionContext context.Context, projectID int, tagName string) (*gitlab.Tag, error)
	AddTag(executionContext context.Context, projectID int, tagName string, commitSHA string) (gitlab.Tag, error)
	RemoveTag(executionContext context.Context, projectID int, tagName string) error
}

// Delays configures the deliberate pacing used by the engine. The warm-up
// guards against hammering the API when operations are queued back-to-back;
// the settle delay covers GitLab's eventual-consistency window after merge
// request creation; the retry interval paces merge-status polling.
type Delays struct {
	WarmUp        time.Duration
	MergeSettle   time.Duration
	RetryInterval time.Duration
	RetryAttempts int
}

// DefaultDelays returns the production pacing configuration.
func DefaultDelays() Delays {
	return Delays{
		WarmUp:        defaultWarmUpDelayConstant,
		MergeSettle:   defaultMergeSettleDelayConstant,
		RetryInterval: defaultRetryIntervalConstant,
		RetryAttempts: defaultRetryAttemptsConstant,
	}
}

// OperationError wraps dispatch-level failures: unregistered kinds and
// executor errors that escaped per-project classification.
type OperationError struct {
	Message string
	Action  Action
	Cause   error
}

// Error renders the failure message and cause.
func (operationError *OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorTemplateConstant, operationError.Message)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Message, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError *OperationError) Unwrap() error {
	return operationError.Cause
}

type actionHandler func(executionContext context.Context, action Action, cancellationToken *CancellationToken) (ActionResult, error)

// EngineDependencies configures collaborators for the action engine.
type EngineDependencies struct {
	Client ResourceClient
	Logger *zap.Logger
	Delays *Delays
}

// Engine dispatches actions to their executors.
type Engine struct {
	client   ResourceClient
	logger   *zap.Logger
	delays   Delays
	handlers map[Kind]actionHandler
}

// NewEngine constructs an Engine and validates that every known action kind
// has a registered handler.
func NewEngine(dependencies EngineDependencies) (*Engine, error) {
	if dependencies.Client == nil {
		return nil, ErrResourceClientNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	delays := DefaultDelays()
	if dependencies.Delays != nil {
		delays = *dependencies.Delays
	}

	engine := &Engine{client: dependencies.Client, logger: logger, delays: delays}

	engine.handlers = map[Kind]actionHandler{
		KindMerge: func(executionContext context.Context, action Action, cancellationToken *CancellationToken) (ActionResult, error) {
			mergeAction, conversionOK := action.(MergeAction)
			if !conversionOK {
				return nil, fmt.Errorf(invalidActionTypeTemplateConstant, action.ActionKind(), action)
			}
			return engine.performMerge(executionContext, mergeAction, cancellationToken)
		},
		KindRelease: func(executionContext context.Context, action Action, cancellationToken *CancellationToken) (ActionResult, error) {
			releaseAction, conversionOK := action.(ReleaseAction)
			if !conversionOK {
				return nil, fmt.Errorf(invalidActionTypeTemplateConstant, action.ActionKind(), action)
			}
			return engine.performRelease(executionContext, releaseAction, cancellationToken)
		},
		KindMoveTag: func(executionContext context.Context, action Action, cancellationToken *CancellationToken) (ActionResult, error) {
			moveTagAction, conversionOK := action.(MoveTagAction)
			if !conversionOK {
				return nil, fmt.Errorf(invalidActionTypeTemplateConstant, action.ActionKind(), action)
			}
			return engine.performMoveTag(executionContext, moveTagAction, cancellationToken)
		},
		KindCheckDiffs: func(executionContext context.Context, action Action, cancellationToken *CancellationToken) (ActionResult, error) {
			checkDiffsAction, conversionOK := action.(CheckDiffsAction)
			if !conversionOK {
				return nil, fmt.Errorf(invalidActionTypeTemplateConstant, action.ActionKind(), action)
			}
			return engine.performCheckDiffs(executionContext, checkDiffsAction, cancellationToken)
		},
		KindCheckNonActualTags: func(executionContext context.Context, action Action, cancellationToken *CancellationToken) (ActionResult, error) {
			checkTagsAction, conversionOK := action.(CheckNonActualTagsAction)
			if !conversionOK {
				return nil, fmt.Errorf(invalidActionTypeTemplateConstant, action.ActionKind(), action)
			}
			return engine.performCheckNonActualTags(executionContext, checkTagsAction, cancellationToken)
		},
	}

	for kind := range KindDescriptions {
		if _, handlerExists := engine.handlers[kind]; !handlerExists {
			return nil, fmt.Errorf(handlerMissingTemplateConstant, kind.Description())
		}
	}

	return engine, nil
}

// PerformAction dispatches the action to its executor after the warm-up
// delay. Executor failures are wrapped into an OperationError; per-project
// failures never surface here, only inside the returned ActionResult.
func (engine *Engine) PerformAction(executionContext context.Context, action Action, cancellationToken *CancellationToken) (ActionResult, error) {
	handler, handlerExists := engine.handlers[action.ActionKind()]
	if !handlerExists {
		return nil, &OperationError{Message: fmt.Sprintf(handlerMissingTemplateConstant, action.ActionKind().Description()), Action: action}
	}

	engine.logger.Info(
		performActionStartedMessageConstant,
		zap.Stringer(logFieldActionKindConstant, action.ActionKind()),
		zap.String(logFieldActionIdentifierConstant, action.ActionID()),
		zap.Int(logFieldProjectCountConstant, len(action.TargetProjects())),
	)

	if waitError := waitFor(executionContext, engine.delays.WarmUp); waitError != nil {
		return nil, &OperationError{Message: fmt.Sprintf(operationFailureTemplateConstant, action.ActionKind().Description()), Action: action, Cause: waitError}
	}

	result, handlerError := handler(executionContext, action, cancellationToken)
	if handlerError != nil {
		return nil, &OperationError{Message: fmt.Sprintf(operationFailureTemplateConstant, action.ActionKind().Description()), Action: action, Cause: handlerError}
	}

	engine.logger.Info(
		performActionSettledMessageConstant,
		zap.Stringer(logFieldActionKindConstant, action.ActionKind()),
		zap.String(logFieldActionIdentifierConstant, action.ActionID()),
		zap.String(logFieldResultStatusConstant, string(result.ResultStatus())),
	)

	return result, nil
}
