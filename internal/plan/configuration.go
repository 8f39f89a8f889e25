package plan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchops/internal/actions"
)

const (
	configurationPathRequiredMessageConstant      = "plan configuration path must be provided"
	configurationLoadErrorTemplateConstant        = "failed to load plan configuration: %w"
	configurationParseErrorTemplateConstant       = "failed to parse plan configuration: %w"
	configurationEmptyStepsMessageConstant        = "plan configuration must define at least one step"
	configurationOperationMissingMessageConstant  = "plan step missing operation name"
	configurationUnknownOperationTemplateConstant = "plan step %d references unknown operation %q"
	configurationMissingProjectsTemplateConstant  = "plan step %d must list at least one project"
	configurationParametersErrorTemplateConstant  = "plan step %d has invalid parameters: %w"
)

// operationLookup is the closed table of operation names accepted in plan
// files, keyed by the same names the CLI subcommands use.
var operationLookup = map[string]actions.Kind{
	actions.KindMerge.String():              actions.KindMerge,
	actions.KindRelease.String():            actions.KindRelease,
	actions.KindMoveTag.String():            actions.KindMoveTag,
	actions.KindCheckDiffs.String():         actions.KindCheckDiffs,
	actions.KindCheckNonActualTags.String(): actions.KindCheckNonActualTags,
}

// StepConfiguration describes one plan step: the operation to run, the
// projects it targets, and its operation-specific parameters.
type StepConfiguration struct {
	Operation  string         `yaml:"operation"`
	Projects   []int          `yaml:"projects"`
	Parameters map[string]any `yaml:"with"`
}

// Configuration holds the ordered plan steps loaded from YAML.
type Configuration struct {
	Steps []StepConfiguration `yaml:"steps"`
}

// LoadConfiguration reads the plan definition from disk and validates every
// step against the closed operation table.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	var configuration Configuration
	if unmarshalError := yaml.Unmarshal(contentBytes, &configuration); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	if len(configuration.Steps) == 0 {
		return Configuration{}, errors.New(configurationEmptyStepsMessageConstant)
	}

	for stepIndex := range configuration.Steps {
		trimmedOperation := strings.TrimSpace(configuration.Steps[stepIndex].Operation)
		if len(trimmedOperation) == 0 {
			return Configuration{}, errors.New(configurationOperationMissingMessageConstant)
		}
		configuration.Steps[stepIndex].Operation = trimmedOperation

		if _, operationKnown := operationLookup[trimmedOperation]; !operationKnown {
			return Configuration{}, fmt.Errorf(configurationUnknownOperationTemplateConstant, stepIndex, trimmedOperation)
		}

		if len(configuration.Steps[stepIndex].Projects) == 0 {
			return Configuration{}, fmt.Errorf(configurationMissingProjectsTemplateConstant, stepIndex)
		}
	}

	return configuration, nil
}

// BuildActions converts validated plan steps into executable actions.
func BuildActions(configuration Configuration) ([]actions.Action, error) {
	builtActions := make([]actions.Action, 0, len(configuration.Steps))

	for stepIndex := range configuration.Steps {
		step := configuration.Steps[stepIndex]
		kind := operationLookup[step.Operation]

		action, buildError := buildStepAction(kind, step)
		if buildError != nil {
			return nil, fmt.Errorf(configurationParametersErrorTemplateConstant, stepIndex, buildError)
		}

		builtActions = append(builtActions, action)
	}

	return builtActions, nil
}

func buildStepAction(kind actions.Kind, step StepConfiguration) (actions.Action, error) {
	switch kind {
	case actions.KindMerge:
		var parameters actions.MergeParameters
		if decodeError := mapstructure.Decode(step.Parameters, &parameters); decodeError != nil {
			return nil, decodeError
		}
		return actions.NewMergeAction(step.Projects, parameters), nil
	case actions.KindRelease:
		var parameters actions.ReleaseParameters
		if decodeError := mapstructure.Decode(step.Parameters, &parameters); decodeError != nil {
			return nil, decodeError
		}
		return actions.NewReleaseAction(step.Projects, parameters), nil
	case actions.KindMoveTag:
		var parameters actions.MoveTagParameters
		if decodeError := mapstructure.Decode(step.Parameters, &parameters); decodeError != nil {
			return nil, decodeError
		}
		return actions.NewMoveTagAction(step.Projects, parameters), nil
	case actions.KindCheckDiffs:
		var parameters actions.CheckDiffsParameters
		if decodeError := mapstructure.Decode(step.Parameters, &parameters); decodeError != nil {
			return nil, decodeError
		}
		return actions.NewCheckDiffsAction(step.Projects, parameters), nil
	default:
		var parameters actions.CheckNonActualTagsParameters
		if decodeError := mapstructure.Decode(step.Parameters, &parameters); decodeError != nil {
			return nil, decodeError
		}
		return actions.NewCheckNonActualTagsAction(step.Projects, parameters), nil
	}
}
