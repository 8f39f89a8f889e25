package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"
)

const (
	groupsEndpointConstant             = "/groups"
	groupProjectsEndpointTemplate      = "/groups/%d/projects"
	pageSizeQueryParameterConstant     = "per_page"
	archivedQueryParameterConstant     = "archived"
	archivedExcludedValueConstant      = "false"
	defaultPageSizeValueConstant       = "100"
	createdAtTimestampLayoutConstant   = time.RFC3339
	groupListDecodeErrorTemplate       = "unable to interpret group timestamps: %w"
	projectListDecodeErrorTemplateName = "unable to interpret project timestamps: %w"
)

// Group describes a GitLab group container.
type Group struct {
	ID          int
	Name        string
	FullName    string
	Description string
	Link        string
	ParentID    int
	ImageSource string
	CreatedAt   time.Time
}

// Project describes a single repository managed under a group.
type Project struct {
	ID              int
	GroupID         int
	Name            string
	FullName        string
	Description     string
	Link            string
	Archived        bool
	CreatedBy       int
	OpenIssuesCount int
	ImageSource     string
	CreatedAt       time.Time
}

// GetGroups lists visible nested groups sorted by full name.
func (client *Client) GetGroups(executionContext context.Context) ([]Group, error) {
	queryValues := url.Values{}
	queryValues.Set(pageSizeQueryParameterConstant, defaultPageSizeValueConstant)

	var responses []struct {
		ID          int    `json:"id"`
		WebURL      string `json:"web_url"`
		Name        string `json:"name"`
		Description string `json:"description"`
		FullName    string `json:"full_name"`
		CreatedAt   string `json:"created_at"`
		ParentID    *int   `json:"parent_id"`
		AvatarURL   string `json:"avatar_url"`
	}
	requestError := client.get(executionContext, groupsEndpointConstant, queryValues, &responses)
	if requestError != nil {
		return nil, requestError
	}

	groups := make([]Group, 0, len(responses))
	for _, response := range responses {
		if response.ParentID == nil {
			continue
		}
		createdAt, parseError := time.Parse(createdAtTimestampLayoutConstant, response.CreatedAt)
		if parseError != nil {
			return nil, fmt.Errorf(groupListDecodeErrorTemplate, parseError)
		}
		groups = append(groups, Group{
			ID:          response.ID,
			Name:        response.Name,
			FullName:    response.FullName,
			Description: response.Description,
			Link:        response.WebURL,
			ParentID:    *response.ParentID,
			ImageSource: response.AvatarURL,
			CreatedAt:   createdAt,
		})
	}

	sort.Slice(groups, func(firstIndex, secondIndex int) bool {
		return groups[firstIndex].FullName < groups[secondIndex].FullName
	})

	return groups, nil
}

// GetProjects lists non-archived projects in the group sorted by full name.
func (client *Client) GetProjects(executionContext context.Context, groupID int) ([]Project, error) {
	queryValues := url.Values{}
	queryValues.Set(archivedQueryParameterConstant, archivedExcludedValueConstant)
	queryValues.Set(pageSizeQueryParameterConstant, defaultPageSizeValueConstant)

	var responses []struct {
		ID                int    `json:"id"`
		WebURL            string `json:"web_url"`
		Name              string `json:"name"`
		Description       string `json:"description"`
		NameWithNamespace string `json:"name_with_namespace"`
		CreatedAt         string `json:"created_at"`
		AvatarURL         string `json:"avatar_url"`
		Archived          bool   `json:"archived"`
		CreatorID         int    `json:"creator_id"`
		OpenIssuesCount   int    `json:"open_issues_count"`
	}
	requestError := client.get(executionContext, fmt.Sprintf(groupProjectsEndpointTemplate, groupID), queryValues, &responses)
	if requestError != nil {
		return nil, requestError
	}

	projects := make([]Project, 0, len(responses))
	for _, response := range responses {
		createdAt, parseError := time.Parse(createdAtTimestampLayoutConstant, response.CreatedAt)
		if parseError != nil {
			return nil, fmt.Errorf(projectListDecodeErrorTemplateName, parseError)
		}
		projects = append(projects, Project{
			ID:              response.ID,
			GroupID:         groupID,
			Name:            response.Name,
			FullName:        response.NameWithNamespace,
			Description:     response.Description,
			Link:            response.WebURL,
			Archived:        response.Archived,
			CreatedBy:       response.CreatorID,
			OpenIssuesCount: response.OpenIssuesCount,
			ImageSource:     response.AvatarURL,
			CreatedAt:       createdAt,
		})
	}

	sort.Slice(projects, func(firstIndex, secondIndex int) bool {
		return projects[firstIndex].FullName < projects[secondIndex].FullName
	})

	return projects, nil
}
