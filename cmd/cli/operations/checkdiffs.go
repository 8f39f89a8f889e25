package operations

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/branchops/internal/actions"
)

const (
	checkDiffsCommandUseConstant      = "check-diffs"
	checkDiffsCommandShortConstant    = "Check for differences between two branches"
	checkDiffsCommandLongConstant     = "check-diffs compares the source and target branches in every listed project and reports which projects carry unmerged changes. No project is modified."
	checkDiffsSourceFlagNameConstant  = "source"
	checkDiffsSourceFlagUsageConstant = "Branch holding candidate changes"
	checkDiffsTargetFlagNameConstant  = "target"
	checkDiffsTargetFlagUsageConstant = "Branch to compare against"
)

// CheckDiffsCommandBuilder assembles the check-diffs command.
type CheckDiffsCommandBuilder struct {
	Dependencies Dependencies
}

// Build constructs the check-diffs command.
func (builder *CheckDiffsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   checkDiffsCommandUseConstant,
		Short: checkDiffsCommandShortConstant,
		Long:  checkDiffsCommandLongConstant,
		RunE:  builder.run,
	}

	command.Flags().IntSlice(projectsFlagNameConstant, nil, projectsFlagUsageConstant)
	command.Flags().String(checkDiffsSourceFlagNameConstant, "", checkDiffsSourceFlagUsageConstant)
	command.Flags().String(checkDiffsTargetFlagNameConstant, "", checkDiffsTargetFlagUsageConstant)

	return command, nil
}

func (builder *CheckDiffsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	projects, projectsError := projectIdentifiers(command)
	if projectsError != nil {
		return projectsError
	}

	parameters, _ := actions.DefaultParameters(actions.KindCheckDiffs, builder.Dependencies.resolveSettings()).(actions.CheckDiffsParameters)

	if command.Flags().Changed(checkDiffsSourceFlagNameConstant) {
		parameters.SourceBranch, _ = command.Flags().GetString(checkDiffsSourceFlagNameConstant)
	}
	if command.Flags().Changed(checkDiffsTargetFlagNameConstant) {
		parameters.TargetBranch, _ = command.Flags().GetString(checkDiffsTargetFlagNameConstant)
	}

	if len(strings.TrimSpace(parameters.SourceBranch)) == 0 || len(strings.TrimSpace(parameters.TargetBranch)) == 0 {
		return errors.New(missingBranchesErrorMessage)
	}

	action := actions.NewCheckDiffsAction(projects, parameters)
	return runOperation(command, builder.Dependencies, action, parameters)
}
