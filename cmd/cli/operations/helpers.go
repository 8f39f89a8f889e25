package operations

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchops/internal/actions"
	"github.com/temirov/branchops/internal/results"
)

const (
	projectsFlagNameConstant          = "projects"
	projectsFlagUsageConstant         = "Identifiers of the projects to operate on"
	missingProjectsErrorMessage       = "at least one project identifier is required"
	clientProviderMissingErrorMessage = "gitlab client provider is not configured"
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// ClientProvider supplies the configured GitLab resource client.
type ClientProvider func() (actions.ResourceClient, error)

// Dependencies carries the collaborators shared by every operation command.
type Dependencies struct {
	LoggerProvider   LoggerProvider
	ClientProvider   ClientProvider
	SettingsProvider func() actions.Settings
	History          *results.History
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (dependencies Dependencies) resolveSettings() actions.Settings {
	if dependencies.SettingsProvider == nil {
		return actions.Settings{}
	}
	return dependencies.SettingsProvider()
}

func projectIdentifiers(command *cobra.Command) ([]int, error) {
	projects, flagError := command.Flags().GetIntSlice(projectsFlagNameConstant)
	if flagError != nil {
		return nil, flagError
	}
	if len(projects) == 0 {
		return nil, errors.New(missingProjectsErrorMessage)
	}
	return projects, nil
}

// runOperation executes the action through a freshly built engine, wiring
// SIGINT to cooperative cancellation, and records the settled operation in
// the history before rendering the summary. In-flight calls finish on their
// own; the signal only stops further work.
func runOperation(command *cobra.Command, dependencies Dependencies, action actions.Action, parameters any) error {
	if dependencies.ClientProvider == nil {
		return errors.New(clientProviderMissingErrorMessage)
	}

	client, clientError := dependencies.ClientProvider()
	if clientError != nil {
		return clientError
	}

	engine, engineError := actions.NewEngine(actions.EngineDependencies{
		Client: client,
		Logger: resolveLogger(dependencies.LoggerProvider),
	})
	if engineError != nil {
		return engineError
	}

	cancellationToken := actions.NewCancellationToken()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)
	monitorDone := make(chan struct{})
	go func() {
		select {
		case <-signalChannel:
			cancellationToken.Cancel()
		case <-monitorDone:
		}
	}()
	defer func() {
		signal.Stop(signalChannel)
		close(monitorDone)
	}()

	startedAt := time.Now()
	actionResult, actionError := engine.PerformAction(command.Context(), action, cancellationToken)
	completedAt := time.Now()

	buildOptions := results.BuildOptions{
		StartedAt:   &startedAt,
		CompletedAt: &completedAt,
		Parameters:  parameters,
	}
	if actionError != nil {
		buildOptions.Error = actionError.Error()
	} else {
		buildOptions.Result = actionResult
	}

	operationResult := results.BuildOperationResult(action.ActionKind(), action.TargetProjects(), buildOptions)
	if dependencies.History != nil {
		dependencies.History.Add(operationResult)
	}

	if actionError != nil {
		return actionError
	}

	renderSummary(command.OutOrStdout(), operationResult)
	return nil
}
