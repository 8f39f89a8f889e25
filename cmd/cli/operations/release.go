package operations

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/branchops/internal/actions"
)

const (
	releaseCommandUseConstant       = "release"
	releaseCommandShortConstant     = "Merge test into master and tag the release"
	releaseCommandLongConstant      = "release merges the test branch into master in every listed project and, unless disabled, stamps the release tag onto each project's resulting master commit."
	releaseVersionFlagNameConstant  = "version"
	releaseVersionFlagUsageConstant = "Release tag name"
	releaseNameFlagNameConstant     = "merge-request-name"
	releaseNameFlagUsageConstant    = "Title for the test to master merge request"
	releaseSetTagFlagNameConstant   = "set-version-tag-after"
	releaseSetTagFlagUsageConstant  = "Create the release tag after the merge settles"
	missingVersionErrorMessage      = "release version is required"
)

// ReleaseCommandBuilder assembles the release command.
type ReleaseCommandBuilder struct {
	Dependencies Dependencies
}

// Build constructs the release command.
func (builder *ReleaseCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   releaseCommandUseConstant,
		Short: releaseCommandShortConstant,
		Long:  releaseCommandLongConstant,
		RunE:  builder.run,
	}

	command.Flags().IntSlice(projectsFlagNameConstant, nil, projectsFlagUsageConstant)
	command.Flags().String(releaseVersionFlagNameConstant, "", releaseVersionFlagUsageConstant)
	command.Flags().String(releaseNameFlagNameConstant, "", releaseNameFlagUsageConstant)
	command.Flags().Bool(releaseSetTagFlagNameConstant, true, releaseSetTagFlagUsageConstant)

	return command, nil
}

func (builder *ReleaseCommandBuilder) run(command *cobra.Command, arguments []string) error {
	projects, projectsError := projectIdentifiers(command)
	if projectsError != nil {
		return projectsError
	}

	parameters, _ := actions.DefaultParameters(actions.KindRelease, builder.Dependencies.resolveSettings()).(actions.ReleaseParameters)

	if command.Flags().Changed(releaseVersionFlagNameConstant) {
		parameters.Version, _ = command.Flags().GetString(releaseVersionFlagNameConstant)
	}
	if command.Flags().Changed(releaseNameFlagNameConstant) {
		parameters.MergeRequestName, _ = command.Flags().GetString(releaseNameFlagNameConstant)
	}
	if command.Flags().Changed(releaseSetTagFlagNameConstant) {
		parameters.SetVersionTagAfter, _ = command.Flags().GetBool(releaseSetTagFlagNameConstant)
	}

	if len(strings.TrimSpace(parameters.Version)) == 0 {
		return errors.New(missingVersionErrorMessage)
	}

	action := actions.NewReleaseAction(projects, parameters)
	return runOperation(command, builder.Dependencies, action, parameters)
}
