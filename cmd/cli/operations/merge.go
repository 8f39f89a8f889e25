package operations

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/branchops/internal/actions"
)

const (
	mergeCommandUseConstant      = "merge"
	mergeCommandShortConstant    = "Merge a source branch into a target branch across projects"
	mergeCommandLongConstant     = "merge opens a merge request from the source branch into the target branch in every listed project and merges it, retrying while GitLab is still computing the merge status."
	mergeSourceFlagNameConstant  = "source"
	mergeSourceFlagUsageConstant = "Branch to merge from"
	mergeTargetFlagNameConstant  = "target"
	mergeTargetFlagUsageConstant = "Branch to merge into"
	mergeNameFlagNameConstant    = "name"
	mergeNameFlagUsageConstant   = "Merge request title"
	missingBranchesErrorMessage  = "source and target branches are required"
)

// MergeCommandBuilder assembles the merge command.
type MergeCommandBuilder struct {
	Dependencies Dependencies
}

// Build constructs the merge command.
func (builder *MergeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   mergeCommandUseConstant,
		Short: mergeCommandShortConstant,
		Long:  mergeCommandLongConstant,
		RunE:  builder.run,
	}

	command.Flags().IntSlice(projectsFlagNameConstant, nil, projectsFlagUsageConstant)
	command.Flags().String(mergeSourceFlagNameConstant, "", mergeSourceFlagUsageConstant)
	command.Flags().String(mergeTargetFlagNameConstant, "", mergeTargetFlagUsageConstant)
	command.Flags().String(mergeNameFlagNameConstant, "", mergeNameFlagUsageConstant)

	return command, nil
}

func (builder *MergeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	projects, projectsError := projectIdentifiers(command)
	if projectsError != nil {
		return projectsError
	}

	parameters, _ := actions.DefaultParameters(actions.KindMerge, builder.Dependencies.resolveSettings()).(actions.MergeParameters)

	if command.Flags().Changed(mergeSourceFlagNameConstant) {
		parameters.SourceBranch, _ = command.Flags().GetString(mergeSourceFlagNameConstant)
	}
	if command.Flags().Changed(mergeTargetFlagNameConstant) {
		parameters.TargetBranch, _ = command.Flags().GetString(mergeTargetFlagNameConstant)
	}
	if command.Flags().Changed(mergeNameFlagNameConstant) {
		parameters.Name, _ = command.Flags().GetString(mergeNameFlagNameConstant)
	}

	if len(strings.TrimSpace(parameters.SourceBranch)) == 0 || len(strings.TrimSpace(parameters.TargetBranch)) == 0 {
		return errors.New(missingBranchesErrorMessage)
	}

	action := actions.NewMergeAction(projects, parameters)
	return runOperation(command, builder.Dependencies, action, parameters)
}
