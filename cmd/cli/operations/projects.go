package operations

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/temirov/branchops/internal/gitlab"
)

const (
	projectsCommandUseConstant        = "projects"
	projectsCommandShortConstant      = "List the GitLab groups and projects available to the token"
	projectsCommandLongConstant       = "projects fetches the accessible groups and their projects so their identifiers can be passed to the operation commands."
	projectsVersionHeaderTemplate     = "GitLab %s\n"
	projectsGroupLineTemplate         = "%s (group %d)\n"
	projectsProjectLineTemplate       = "  %d  %s\n"
	projectsClientMissingErrorMessage = "projects command requires a gitlab client provider"
)

// ProjectsCommandBuilder assembles the projects listing command.
type ProjectsCommandBuilder struct {
	ClientProvider func() (*gitlab.Client, error)
}

// Build constructs the projects command.
func (builder *ProjectsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   projectsCommandUseConstant,
		Short: projectsCommandShortConstant,
		Long:  projectsCommandLongConstant,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *ProjectsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if builder.ClientProvider == nil {
		return errors.New(projectsClientMissingErrorMessage)
	}

	client, clientError := builder.ClientProvider()
	if clientError != nil {
		return clientError
	}

	if version, versionError := client.GetVersion(command.Context()); versionError == nil {
		command.Printf(projectsVersionHeaderTemplate, version)
	}

	groups, groupsError := client.GetGroups(command.Context())
	if groupsError != nil {
		return groupsError
	}

	for _, group := range groups {
		command.Printf(projectsGroupLineTemplate, group.FullName, group.ID)

		projects, projectsError := client.GetProjects(command.Context(), group.ID)
		if projectsError != nil {
			return projectsError
		}

		for _, project := range projects {
			command.Printf(projectsProjectLineTemplate, project.ID, project.Name)
		}
	}

	return nil
}
