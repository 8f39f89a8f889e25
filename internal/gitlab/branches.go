package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	branchesEndpointTemplateConstant   = "/projects/%d/repository/branches"
	branchEndpointTemplateConstant     = "/projects/%d/repository/branches/%s"
	compareEndpointTemplateConstant    = "/projects/%d/repository/compare"
	commitEndpointTemplateConstant     = "/projects/%d/repository/commits/%s"
	branchSearchQueryParameterConstant = "search"
	compareFromQueryParameterConstant  = "from"
	compareToQueryParameterConstant    = "to"
)

// Branch describes a repository branch and its head commit.
type Branch struct {
	ProjectID  int
	Name       string
	CommitSHA  string
	CommitLink string
	Link       string
}

// Commit describes a single repository commit.
type Commit struct {
	ProjectID int
	SHA       string
	Link      string
}

type branchResponse struct {
	Name   string `json:"name"`
	WebURL string `json:"web_url"`
	Commit struct {
		ID     string `json:"id"`
		WebURL string `json:"web_url"`
	} `json:"commit"`
}

// CheckHasBranch reports whether the project contains a branch matching the
// provided name.
func (client *Client) CheckHasBranch(executionContext context.Context, projectID int, branchName string) (bool, error) {
	queryValues := url.Values{}
	queryValues.Set(branchSearchQueryParameterConstant, branchName)

	var branches []branchResponse
	requestError := client.get(executionContext, fmt.Sprintf(branchesEndpointTemplateConstant, projectID), queryValues, &branches)
	if requestError != nil {
		return false, requestError
	}

	return len(branches) > 0, nil
}

// GetBranchInfo retrieves the branch head commit and display links.
func (client *Client) GetBranchInfo(executionContext context.Context, projectID int, branchName string) (Branch, error) {
	var response branchResponse
	requestError := client.get(executionContext, fmt.Sprintf(branchEndpointTemplateConstant, projectID, url.PathEscape(branchName)), nil, &response)
	if requestError != nil {
		return Branch{}, requestError
	}

	return Branch{
		ProjectID:  projectID,
		Name:       branchName,
		CommitSHA:  response.Commit.ID,
		CommitLink: response.Commit.WebURL,
		Link:       response.WebURL,
	}, nil
}

// CreateBranch creates a branch starting from the provided commit.
func (client *Client) CreateBranch(executionContext context.Context, projectID int, commitSHA string, branchName string) (Branch, error) {
	payload := struct {
		ID     int    `json:"id"`
		Branch string `json:"branch"`
		Ref    string `json:"ref"`
	}{ID: projectID, Branch: branchName, Ref: commitSHA}

	var response branchResponse
	requestError := client.post(executionContext, fmt.Sprintf(branchesEndpointTemplateConstant, projectID), payload, &response)
	if requestError != nil {
		return Branch{}, requestError
	}

	return Branch{
		ProjectID:  projectID,
		Name:       branchName,
		CommitSHA:  commitSHA,
		CommitLink: response.Commit.WebURL,
		Link:       response.WebURL,
	}, nil
}

// CheckHasDiffs reports whether the source branch carries changes missing
// from the target branch.
func (client *Client) CheckHasDiffs(executionContext context.Context, projectID int, sourceBranch string, targetBranch string) (bool, error) {
	queryValues := url.Values{}
	queryValues.Set(compareFromQueryParameterConstant, targetBranch)
	queryValues.Set(compareToQueryParameterConstant, sourceBranch)

	var response struct {
		Diffs []json.RawMessage `json:"diffs"`
	}
	requestError := client.get(executionContext, fmt.Sprintf(compareEndpointTemplateConstant, projectID), queryValues, &response)
	if requestError != nil {
		return false, requestError
	}

	return len(response.Diffs) > 0, nil
}

// GetCommitInfo resolves display details for a commit by SHA.
func (client *Client) GetCommitInfo(executionContext context.Context, projectID int, commitSHA string) (Commit, error) {
	var response struct {
		WebURL string `json:"web_url"`
	}
	requestError := client.get(executionContext, fmt.Sprintf(commitEndpointTemplateConstant, projectID, commitSHA), nil, &response)
	if requestError != nil {
		return Commit{}, requestError
	}

	return Commit{ProjectID: projectID, SHA: commitSHA, Link: response.WebURL}, nil
}
