package plan

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchops/internal/actions"
	"github.com/temirov/branchops/internal/results"
)

const (
	commandUseConstant                     = "plan [plan-file]"
	commandShortDescriptionConstant        = "Run a multi-step operation plan file"
	commandLongDescriptionConstant         = "plan executes the operations defined in a YAML plan file in order, sharing one cancellation token across every step."
	configurationPathRequiredErrorConstant = "plan file path required; provide it as a positional argument"
	clientProviderMissingErrorConstant     = "plan command requires a gitlab client provider"
	loadConfigurationErrorTemplateConstant = "unable to load plan: %w"
	buildActionsErrorTemplateConstant      = "unable to build plan actions: %w"
	stepSummaryTemplateConstant            = "step %d (%s): %s\n"
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// ClientProvider supplies the configured GitLab resource client.
type ClientProvider func() (actions.ResourceClient, error)

// CommandBuilder assembles the plan command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	ClientProvider ClientProvider
	History        *results.History
}

// Build constructs the plan command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) == 0 || len(strings.TrimSpace(arguments[0])) == 0 {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return errors.New(configurationPathRequiredErrorConstant)
	}

	configuration, configurationError := LoadConfiguration(arguments[0])
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplateConstant, configurationError)
	}

	planActions, buildError := BuildActions(configuration)
	if buildError != nil {
		return fmt.Errorf(buildActionsErrorTemplateConstant, buildError)
	}

	logger := zap.NewNop()
	if builder.LoggerProvider != nil {
		if provided := builder.LoggerProvider(); provided != nil {
			logger = provided
		}
	}

	if builder.ClientProvider == nil {
		return errors.New(clientProviderMissingErrorConstant)
	}

	client, clientError := builder.ClientProvider()
	if clientError != nil {
		return clientError
	}

	engine, engineError := actions.NewEngine(actions.EngineDependencies{Client: client, Logger: logger})
	if engineError != nil {
		return engineError
	}

	history := builder.History
	if history == nil {
		history = results.NewHistory()
	}

	runner, runnerError := NewRunner(RunnerDependencies{Engine: engine, History: history, Logger: logger})
	if runnerError != nil {
		return runnerError
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

	runError := runner.Run(command.Context(), planActions, cancellationToken)

	for entryIndex, entry := range history.List() {
		if entry.Error != "" {
			fmt.Fprintf(command.OutOrStdout(), stepSummaryTemplateConstant, entryIndex, entry.Kind, entry.Error)
			continue
		}
		fmt.Fprintf(command.OutOrStdout(), stepSummaryTemplateConstant, entryIndex, entry.Kind, entry.Result.ResultStatus())
	}

	return runError
}
