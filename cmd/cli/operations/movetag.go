package operations

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/branchops/internal/actions"
)

const (
	moveTagCommandUseConstant      = "move-tag"
	moveTagCommandShortConstant    = "Move a tag onto the latest master commit"
	moveTagCommandLongConstant     = "move-tag repositions the named tag onto the master head commit in every listed project, optionally creating it where it does not exist yet."
	moveTagNameFlagNameConstant    = "name"
	moveTagNameFlagUsageConstant   = "Tag to move"
	moveTagCreateFlagNameConstant  = "create-if-not-exist"
	moveTagCreateFlagUsageConstant = "Create the tag when the project does not have it"
	missingTagNameErrorMessage     = "tag name is required"
)

// MoveTagCommandBuilder assembles the move-tag command.
type MoveTagCommandBuilder struct {
	Dependencies Dependencies
}

// Build constructs the move-tag command.
func (builder *MoveTagCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   moveTagCommandUseConstant,
		Short: moveTagCommandShortConstant,
		Long:  moveTagCommandLongConstant,
		RunE:  builder.run,
	}

	command.Flags().IntSlice(projectsFlagNameConstant, nil, projectsFlagUsageConstant)
	command.Flags().String(moveTagNameFlagNameConstant, "", moveTagNameFlagUsageConstant)
	command.Flags().Bool(moveTagCreateFlagNameConstant, false, moveTagCreateFlagUsageConstant)

	return command, nil
}

func (builder *MoveTagCommandBuilder) run(command *cobra.Command, arguments []string) error {
	projects, projectsError := projectIdentifiers(command)
	if projectsError != nil {
		return projectsError
	}

	parameters, _ := actions.DefaultParameters(actions.KindMoveTag, builder.Dependencies.resolveSettings()).(actions.MoveTagParameters)

	if command.Flags().Changed(moveTagNameFlagNameConstant) {
		parameters.Name, _ = command.Flags().GetString(moveTagNameFlagNameConstant)
	}
	if command.Flags().Changed(moveTagCreateFlagNameConstant) {
		parameters.CreateIfNotExist, _ = command.Flags().GetBool(moveTagCreateFlagNameConstant)
	}

	if len(strings.TrimSpace(parameters.Name)) == 0 {
		return errors.New(missingTagNameErrorMessage)
	}

	action := actions.NewMoveTagAction(projects, parameters)
	return runOperation(command, builder.Dependencies, action, parameters)
}
