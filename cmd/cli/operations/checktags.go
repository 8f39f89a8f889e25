package operations

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/branchops/internal/actions"
)

const (
	checkTagsCommandUseConstant    = "check-tags"
	checkTagsCommandShortConstant  = "Find tags that drifted off the master head commit"
	checkTagsCommandLongConstant   = "check-tags compares the named tag's commit against the master head commit in every listed project and reports the projects where the tag lags behind. No project is modified."
	checkTagsNameFlagNameConstant  = "name"
	checkTagsNameFlagUsageConstant = "Tag to audit"
)

// CheckTagsCommandBuilder assembles the check-tags command.
type CheckTagsCommandBuilder struct {
	Dependencies Dependencies
}

// Build constructs the check-tags command.
func (builder *CheckTagsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   checkTagsCommandUseConstant,
		Short: checkTagsCommandShortConstant,
		Long:  checkTagsCommandLongConstant,
		RunE:  builder.run,
	}

	command.Flags().IntSlice(projectsFlagNameConstant, nil, projectsFlagUsageConstant)
	command.Flags().String(checkTagsNameFlagNameConstant, "", checkTagsNameFlagUsageConstant)

	return command, nil
}

func (builder *CheckTagsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	projects, projectsError := projectIdentifiers(command)
	if projectsError != nil {
		return projectsError
	}

	parameters, _ := actions.DefaultParameters(actions.KindCheckNonActualTags, builder.Dependencies.resolveSettings()).(actions.CheckNonActualTagsParameters)

	if command.Flags().Changed(checkTagsNameFlagNameConstant) {
		parameters.Name, _ = command.Flags().GetString(checkTagsNameFlagNameConstant)
	}

	if len(strings.TrimSpace(parameters.Name)) == 0 {
		return errors.New(missingTagNameErrorMessage)
	}

	action := actions.NewCheckNonActualTagsAction(projects, parameters)
	return runOperation(command, builder.Dependencies, action, parameters)
}
