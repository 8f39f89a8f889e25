package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const (
	tagsEndpointTemplateConstant    = "/projects/%d/repository/tags"
	tagEndpointTemplateConstant     = "/projects/%d/repository/tags/%s"
	tagSearchQueryParameterConstant = "search"
	tagNotFoundMessageConstant      = "404 Tag Not Found"
)

// Tag describes a repository tag and the commit it points at.
type Tag struct {
	ProjectID  int
	Name       string
	CommitSHA  string
	CommitLink string
}

type tagResponse struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Commit struct {
		ID     string `json:"id"`
		WebURL string `json:"web_url"`
	} `json:"commit"`
}

// FindTags lists project tags whose names match the search query.
func (client *Client) FindTags(executionContext context.Context, projectID int, searchQuery string) ([]Tag, error) {
	queryValues := url.Values{}
	if len(searchQuery) > 0 {
		queryValues.Set(tagSearchQueryParameterConstant, searchQuery)
	}

	var responses []tagResponse
	requestError := client.get(executionContext, fmt.Sprintf(tagsEndpointTemplateConstant, projectID), queryValues, &responses)
	if requestError != nil {
		return nil, requestError
	}

	tags := make([]Tag, 0, len(responses))
	for _, response := range responses {
		tags = append(tags, Tag{
			ProjectID:  projectID,
			Name:       response.Name,
			CommitSHA:  response.Target,
			CommitLink: response.Commit.WebURL,
		})
	}

	return tags, nil
}

// GetTag retrieves tag details by name. A missing tag is reported as a nil
// Tag, not an error.
func (client *Client) GetTag(executionContext context.Context, projectID int, tagName string) (*Tag, error) {
	var response tagResponse
	requestError := client.get(executionContext, fmt.Sprintf(tagEndpointTemplateConstant, projectID, url.PathEscape(tagName)), nil, &response)
	if requestError != nil {
		var httpError HTTPError
		if errors.As(requestError, &httpError) {
			if httpError.StatusCode == http.StatusNotFound {
				return nil, nil
			}
			if httpError.Message() == tagNotFoundMessageConstant {
				return nil, nil
			}
		}
		return nil, requestError
	}

	return &Tag{
		ProjectID:  projectID,
		Name:       tagName,
		CommitSHA:  response.Target,
		CommitLink: response.Commit.WebURL,
	}, nil
}

// AddTag creates a tag pointing at the provided commit.
func (client *Client) AddTag(executionContext context.Context, projectID int, tagName string, commitSHA string) (Tag, error) {
	payload := struct {
		TagName string `json:"tag_name"`
		Ref     string `json:"ref"`
	}{TagName: tagName, Ref: commitSHA}

	var response tagResponse
	requestError := client.post(executionContext, fmt.Sprintf(tagsEndpointTemplateConstant, projectID), payload, &response)
	if requestError != nil {
		return Tag{}, requestError
	}

	return Tag{
		ProjectID:  projectID,
		Name:       response.Name,
		CommitSHA:  response.Target,
		CommitLink: response.Commit.WebURL,
	}, nil
}

// RemoveTag deletes the named tag from the project.
func (client *Client) RemoveTag(executionContext context.Context, projectID int, tagName string) error {
	return client.delete(executionContext, fmt.Sprintf(tagEndpointTemplateConstant, projectID, url.PathEscape(tagName)))
}
